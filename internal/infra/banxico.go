package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrBanxicoNoDisponible indica que el SIE de Banxico no respondio o
// respondio mal. La sincronizacion aborta sin tocar la base.
var ErrBanxicoNoDisponible = errors.New("banxico: servicio no disponible")

// Cotizacion es un tipo de cambio publicado: fecha de publicacion en el
// DOF y su valor FIX en MXN por USD.
type Cotizacion struct {
	Fecha time.Time
	Valor decimal.Decimal
}

// BanxicoClient consulta la serie del tipo de cambio en el SIE de Banxico
// (API REST, autenticacion por header Bmx-Token). Envuelve cada llamada en
// un circuit breaker para no martillar el servicio cuando esta caido.
type BanxicoClient struct {
	baseURL    string
	token      string
	serieID    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

func NewBanxicoClient(baseURL, token, serieID string) *BanxicoClient {
	return &BanxicoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		serieID:    serieID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    NewCircuitBreaker(DefaultCBConfig()),
	}
}

// BreakerState expone el estado del circuit breaker para el health check.
func (c *BanxicoClient) BreakerState() string { return c.breaker.State().String() }

// serieResponse refleja el envelope JSON del SIE:
//
//	{"bmx":{"series":[{"idSerie":"SF60653","datos":[{"fecha":"02/01/2026","dato":"17.1234"}]}]}}
type serieResponse struct {
	Bmx struct {
		Series []struct {
			IDSerie string `json:"idSerie"`
			Datos   []struct {
				Fecha string `json:"fecha"`
				Dato  string `json:"dato"`
			} `json:"datos"`
		} `json:"series"`
	} `json:"bmx"`
}

// Cotizaciones trae las cotizaciones publicadas en el rango [desde, hasta],
// ambas inclusive. Los dias sin publicacion ("N/E") se omiten.
func (c *BanxicoClient) Cotizaciones(ctx context.Context, desde, hasta time.Time) ([]Cotizacion, error) {
	var cotizaciones []Cotizacion
	err := c.breaker.Execute(func() error {
		var fetchErr error
		cotizaciones, fetchErr = c.fetch(ctx, desde, hasta)
		return fetchErr
	})
	if errors.Is(err, ErrCircuitOpen) {
		return nil, fmt.Errorf("%w: circuito abierto", ErrBanxicoNoDisponible)
	}
	return cotizaciones, err
}

func (c *BanxicoClient) fetch(ctx context.Context, desde, hasta time.Time) ([]Cotizacion, error) {
	url := fmt.Sprintf("%s/series/%s/datos/%s/%s",
		c.baseURL, c.serieID,
		desde.Format("2006-01-02"), hasta.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("banxico: crear request: %w", err)
	}
	req.Header.Set("Bmx-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBanxicoNoDisponible, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBanxicoNoDisponible, resp.StatusCode)
	}

	var payload serieResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrBanxicoNoDisponible, err)
	}
	if len(payload.Bmx.Series) == 0 {
		return nil, fmt.Errorf("%w: respuesta sin series", ErrBanxicoNoDisponible)
	}

	var cotizaciones []Cotizacion
	for _, dato := range payload.Bmx.Series[0].Datos {
		// "N/E": dia inhabil, sin publicacion
		if dato.Dato == "" || strings.EqualFold(dato.Dato, "N/E") {
			continue
		}
		fecha, err := time.Parse("02/01/2006", dato.Fecha)
		if err != nil {
			return nil, fmt.Errorf("banxico: fecha %q: %w", dato.Fecha, err)
		}
		// el SIE llega a usar separador de miles; cualquier otro marcador
		// no numerico se trata como dia sin publicacion
		valor, err := decimal.NewFromString(strings.ReplaceAll(dato.Dato, ",", ""))
		if err != nil {
			log.Warn().Str("fecha", dato.Fecha).Str("dato", dato.Dato).
				Msg("banxico: dato no numerico, se omite")
			continue
		}
		cotizaciones = append(cotizaciones, Cotizacion{Fecha: fecha, Valor: valor})
	}
	return cotizaciones, nil
}
