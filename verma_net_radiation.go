/*
Package verma_net_radiation calculates instantaneous net radiation and its
components based on the methodology described in:

    Verma, M., Fisher, J. B., Mallick, K., Ryu, Y., Kobayashi, H.,
    Guillaume, A., Moore, G., Ramakrishnan, L., Hendrix, V. C., Wolf, S.,
    Sikka, M., Kiely, G., Wohlfahrt, G., Gielen, B., Roupsard, O.,
    Toscano, P., Arain, A., & Cescatti, A. (2016). Global surface
    net-radiation at 5 km from MODIS Terra. Remote Sensing, 8, 739.
    https://api.semanticscholar.org/CorpusID:1517647

The core function, VermaNetRadiation, computes outgoing shortwave radiation
(SWout), incoming longwave radiation (LWin), outgoing longwave radiation
(LWout), and instantaneous net radiation (Rn). Inputs can be scalars, plain
arrays, or georeferenced rasters, with optional cloud masking.

If SWin, Ta_C, or RH are not provided and both a geometry and a UTC time are
given, the missing variables are retrieved from the NASA GEOS-5 FP reanalysis
dataset, so that only surface properties and spatial/temporal context are
needed.
*/
package verma_net_radiation

import (
	"math"
	"time"

	"verma_net_radiation/geos5fp"
	"verma_net_radiation/rasters"
)

// ReanalysisSource supplies meteorological variables for a raster geometry
// and UTC time. geos5fp.Connection is the production implementation; tests
// substitute a fake. Implementations own any thread-safety guarantees when a
// single source is shared across concurrent calls.
type ReanalysisSource interface {
	SWin(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error)
	Ta_C(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error)
	RH(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error)
}

// Inputs are the arguments to VermaNetRadiation. ST_C, Emissivity and Albedo
// are required; the rest default to absent.
type Inputs struct {
	// ST_C is surface temperature, degree C.
	ST_C *rasters.Raster
	// Emissivity is surface emissivity, unitless, constrained to [0, 1].
	Emissivity *rasters.Raster
	// Albedo is surface albedo, unitless, constrained to [0, 1].
	Albedo *rasters.Raster
	// SWin is incoming shortwave radiation, W/m2. Retrieved from GEOS-5 FP
	// when nil and Geometry and TimeUTC are given.
	SWin *rasters.Raster
	// Ta_C is air temperature, degree C. Retrieved like SWin when nil.
	Ta_C *rasters.Raster
	// RH is relative humidity as a fraction, e.g. 0.5 for 50%. Retrieved
	// like SWin when nil.
	RH *rasters.Raster
	// Geometry is the spatial grid for GEOS-5 FP retrievals and for
	// wrapping results. When nil, a geometry carried by ST_C is adopted.
	Geometry *rasters.RasterGeometry
	// TimeUTC is the UTC time for GEOS-5 FP retrievals; the zero value
	// means not given.
	TimeUTC time.Time
	// Connection is an existing reanalysis source to reuse for retrievals.
	// When nil, a GEOS-5 FP connection is created lazily on first use.
	Connection ReanalysisSource
	// Resampling is the resampling method for GEOS-5 FP retrievals;
	// defaults to ResamplingMethod.
	Resampling string
	// CloudMask is nonzero where cloudy; may be nil.
	CloudMask *rasters.Raster
}

// Results holds the four radiation components, each shaped like the inputs.
type Results struct {
	// SWout is outgoing shortwave radiation, W/m2.
	SWout *rasters.Raster
	// LWin is incoming longwave radiation, W/m2.
	LWin *rasters.Raster
	// LWout is outgoing longwave radiation, W/m2.
	LWout *rasters.Raster
	// Rn is instantaneous net radiation, W/m2.
	Rn *rasters.Raster
}

// An attempt to produce a value for an optional input. Returning (nil, nil)
// passes through to the next source.
type inputSource func() (*rasters.Raster, error)

// Resolve an optional input against an ordered list of sources, failing with
// MissingInputError when none yields a value.
func resolveInput(variable, symbol string, sources ...inputSource) (*rasters.Raster, error) {
	for _, source := range sources {
		value, err := source()
		if err != nil {
			return nil, err
		}
		if value != nil {
			return value, nil
		}
	}
	return nil, &MissingInputError{Variable: variable, Symbol: symbol}
}

func given(value *rasters.Raster) inputSource {
	return func() (*rasters.Raster, error) { return value, nil }
}

/*
Calculate instantaneous net radiation and its components.

    Args:
        in: see Inputs; ST_C, Emissivity and Albedo are required.

    Returns:
        Results with SWout, LWin, LWout and Rn, W/m2.

    Notes:
        Missing SWin, Ta_C or RH are resolved in that order: a supplied value
        is used as-is; otherwise, when both geometry and time are available,
        the value is retrieved from GEOS-5 FP; otherwise the calculation
        fails with MissingInputError naming the variable.
        When spatial context is present, all four results are returned as
        georeferenced rasters sharing it.
*/
func VermaNetRadiation(in Inputs) (*Results, error) {
	geometry := in.Geometry
	if geometry == nil && in.ST_C.IsGeoreferenced() {
		geometry = in.ST_C.Geometry
	}

	rasterProcessing := geometry != nil
	spatialTemporalProcessing := geometry != nil && !in.TimeUTC.IsZero()

	resampling := in.Resampling
	if resampling == "" {
		resampling = ResamplingMethod
	}

	// Create the GEOS-5 FP connection lazily, only if a retrieval is needed.
	connection := in.Connection
	retrieve := func(f func(ReanalysisSource) (*rasters.Raster, error)) inputSource {
		return func() (*rasters.Raster, error) {
			if !spatialTemporalProcessing {
				return nil, nil
			}
			if connection == nil {
				connection = geos5fp.NewConnection()
			}
			return f(connection)
		}
	}

	// Retrieve incoming shortwave if not provided
	SWin, err := resolveInput("incoming shortwave radiation", "SWin",
		given(in.SWin),
		retrieve(func(c ReanalysisSource) (*rasters.Raster, error) {
			return c.SWin(in.TimeUTC, geometry, resampling)
		}))
	if err != nil {
		return nil, err
	}

	// Retrieve air temperature if not provided
	Ta_C, err := resolveInput("air temperature", "Ta_C",
		given(in.Ta_C),
		retrieve(func(c ReanalysisSource) (*rasters.Raster, error) {
			return c.Ta_C(in.TimeUTC, geometry, resampling)
		}))
	if err != nil {
		return nil, err
	}

	// Retrieve relative humidity if not provided
	RH, err := resolveInput("relative humidity", "RH",
		given(in.RH),
		retrieve(func(c ReanalysisSource) (*rasters.Raster, error) {
			return c.RH(in.TimeUTC, geometry, resampling)
		}))
	if err != nil {
		return nil, err
	}

	// Convert surface temperature from Celsius to Kelvin
	ST_K := in.ST_C.AddScalar(get_t_0())

	// Convert air temperature from Celsius to Kelvin
	Ta_K := Ta_C.AddScalar(get_t_0())

	// Calculate water vapor pressure in Pascals using air temperature and
	// relative humidity: Ea = RH * 0.6113 * 10^(7.5 dT / (Ta_K - 35.85)) kPa
	Ea_Pa := RH.Multiply(Ta_K.Apply(func(t float64) float64 {
		return 0.6113 * math.Pow(10.0, 7.5*(t-273.15)/(t-35.85)) * 1000.0
	}))

	// Constrain albedo between 0 and 1
	albedo := in.Albedo.Clip(0, 1)

	// Calculate outgoing shortwave from incoming shortwave and albedo
	SWout := SWin.Multiply(albedo).ClipMin(0)

	// Calculate net shortwave from components
	SWnet := SWin.Subtract(SWout).ClipMin(0)

	// Calculate atmospheric emissivity using the Brutsaert (1975) model
	emissivity_atmosphere := BrutsaertAtmosphericEmissivity(Ea_Pa, Ta_K)

	// Calculate incoming longwave radiation (clear/cloudy)
	LWin := IncomingLongwaveRadiation(emissivity_atmosphere, Ta_K, in.CloudMask)

	// Constrain emissivity between 0 and 1
	emissivity := in.Emissivity.Clip(0, 1)

	// Calculate outgoing longwave from land surface temperature and emissivity
	LWout := OutgoingLongwaveRadiation(emissivity, ST_K)

	// Calculate net longwave radiation
	LWnet := LWin.Subtract(LWout)

	// Constrain negative values of instantaneous net radiation
	Rn := SWnet.Add(LWnet).ClipMin(0)

	results := &Results{SWout: SWout, LWin: LWin, LWout: LWout, Rn: Rn}

	if rasterProcessing {
		results.SWout = rasters.Wrap(results.SWout, geometry)
		results.LWin = rasters.Wrap(results.LWin, geometry)
		results.LWout = rasters.Wrap(results.LWout, geometry)
		results.Rn = rasters.Wrap(results.Rn, geometry)
	}

	return results, nil
}
