package service

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-service/configs"
)

// benchmarkResponse represents the SOAP envelope returned by the central bank feed
type benchmarkResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		XMLName     xml.Name `xml:"Body"`
		GetRateResp struct {
			XMLName xml.Name `xml:"GetCursOnDateXMLResponse"`
			Result  struct {
				XMLName xml.Name `xml:"GetCursOnDateXMLResult"`
				Rates   string   `xml:",innerxml"`
			}
		}
	}
}

// BenchmarkRateSvc fetches the central bank key rate used as the reference for
// FLOATING loans
type BenchmarkRateSvc struct {
	logger *logrus.Logger
	config *configs.Config
}

// NewBenchmarkRateService creates a new BenchmarkRateSvc
func NewBenchmarkRateService(deps Dependencies) *BenchmarkRateSvc {
	return &BenchmarkRateSvc{
		logger: deps.Logger,
		config: deps.Config,
	}
}

// KeyRate gets the key rate from the central bank SOAP endpoint
func (s *BenchmarkRateSvc) KeyRate(ctx context.Context) (decimal.Decimal, error) {
	soapEnvelope := `
	<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:web="http://web.cbr.ru/">
		<soapenv:Header/>
		<soapenv:Body>
			<web:GetCursOnDateXML>
				<web:On_date>` + time.Now().Format("2006-01-02") + `</web:On_date>
			</web:GetCursOnDateXML>
		</soapenv:Body>
	</soapenv:Envelope>`

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Benchmark.APIURL, strings.NewReader(soapEnvelope))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/GetCursOnDateXML")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response: %w", err)
	}

	var benchResp benchmarkResponse
	if err := xml.Unmarshal(body, &benchResp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse XML response: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(benchResp.Body.GetRateResp.Result.Rates); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate data: %w", err)
	}

	keyRateElem := doc.FindElement("//ValCurs/Valute[@ID='R01010']")
	if keyRateElem == nil {
		return decimal.Zero, errors.New("key rate element not found in response")
	}

	valueElem := keyRateElem.FindElement("Value")
	if valueElem == nil {
		return decimal.Zero, errors.New("value element not found in key rate")
	}

	valueStr := strings.Replace(valueElem.Text(), ",", ".", 1)
	keyRate, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse key rate value: %w", err)
	}

	s.logger.Infof("Retrieved benchmark key rate: %s%%", keyRate.String())

	return keyRate, nil
}
