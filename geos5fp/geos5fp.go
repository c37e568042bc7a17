// Package geos5fp retrieves meteorological variables from the NASA GEOS-5 FP
// reanalysis dataset for a raster geometry and UTC time.
//
// The contract is deliberately narrow: one variable per request, resampled to
// the requested grid. A zero-value Connection uses production defaults, so
// callers that already hold a Connection can share it across invocations;
// sharing one across goroutines is the caller's responsibility.
package geos5fp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"verma_net_radiation/rasters"
)

// DefaultBaseURL is the GEOS-5 FP subsetting endpoint.
const DefaultBaseURL = "https://portal.nccs.nasa.gov/datashare/gmao/geos-fp/subset"

// GEOS-5 FP product variables.
const (
	varSWin = "SWGDN" // surface incoming shortwave flux, W/m2
	varTa   = "T2M"   // 2-meter air temperature, K
	varRH   = "RH2M"  // 2-meter relative humidity, fraction
)

// Connection is a handle on the GEOS-5 FP data service.
type Connection struct {
	// BaseURL overrides DefaultBaseURL when set.
	BaseURL string
	// Client overrides http.DefaultClient when set.
	Client *http.Client
}

// NewConnection returns a Connection with production defaults.
func NewConnection() *Connection {
	return &Connection{}
}

// SWin retrieves incoming shortwave radiation, W/m2.
func (c *Connection) SWin(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	return c.retrieve(varSWin, timeUTC, geometry, resampling)
}

// Ta_C retrieves air temperature, degree C.
func (c *Connection) Ta_C(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	Ta_K, err := c.retrieve(varTa, timeUTC, geometry, resampling)
	if err != nil {
		return nil, err
	}
	return Ta_K.AddScalar(-273.15), nil
}

// RH retrieves relative humidity as a fraction.
func (c *Connection) RH(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	return c.retrieve(varRH, timeUTC, geometry, resampling)
}

func (c *Connection) retrieve(variable string, timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	values := url.Values{}
	values.Set("var", variable)
	values.Set("time", timeUTC.UTC().Format(time.RFC3339))
	values.Set("rows", fmt.Sprintf("%d", geometry.Rows))
	values.Set("cols", fmt.Sprintf("%d", geometry.Cols))
	values.Set("xmin", fmt.Sprintf("%f", geometry.XMin))
	values.Set("ymin", fmt.Sprintf("%f", geometry.YMin))
	values.Set("xmax", fmt.Sprintf("%f", geometry.XMax))
	values.Set("ymax", fmt.Sprintf("%f", geometry.YMax))
	values.Set("resampling", resampling)

	log.Printf("retrieving %s from GEOS-5 FP for %s at %s", variable, geometry, timeUTC.UTC().Format(time.RFC3339))

	resp, err := client.Get(fmt.Sprintf("%s?%s", baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geos5fp: %s retrieval failed with status %s", variable, resp.Status)
	}

	var payload struct {
		Values []float64 `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Values) != geometry.Rows*geometry.Cols {
		return nil, fmt.Errorf("geos5fp: %s returned %d values for %dx%d grid",
			variable, len(payload.Values), geometry.Rows, geometry.Cols)
	}

	return rasters.NewRaster(payload.Values, geometry), nil
}
