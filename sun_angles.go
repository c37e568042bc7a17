package verma_net_radiation

import (
	"math"

	"verma_net_radiation/rasters"
)

/*
Calculate the sunrise hour angle from day of year and latitude.

    Args:
        day_of_year: day of the year (1-365)
        lat: latitude, degrees

    Returns:
        sunrise hour angle, degrees

    Notes:
        Solar declination follows delta = 0.409 sin(2 pi DOY / 365 - 1.39).
        The cosine of the hour angle is clamped to [-1, 1] so that polar day
        and polar night yield 180 and 0 degrees instead of NaN.
*/
func SHADegFromDOYLat(day_of_year, lat *rasters.Raster) *rasters.Raster {
	// Solar declination, rad
	delta := day_of_year.Apply(func(doy float64) float64 {
		return 0.409 * math.Sin(2.0*math.Pi/365.0*doy-1.39)
	})

	// Cosine of the sunrise hour angle
	sunrise_cos := lat.MultiplyScalar(math.Pi / 180.0).
		Apply(math.Tan).
		Multiply(delta.Apply(math.Tan)).
		MultiplyScalar(-1.0).
		Clip(-1, 1)

	return sunrise_cos.Apply(math.Acos).MultiplyScalar(180.0 / math.Pi)
}

// DaylightFromSHA converts the sunrise hour angle, degrees, to daylight hours.
func DaylightFromSHA(SHA_deg *rasters.Raster) *rasters.Raster {
	return SHA_deg.MultiplyScalar(2.0 / 15.0)
}

// SunriseFromSHA converts the sunrise hour angle, degrees, to the local hour
// of sunrise.
func SunriseFromSHA(SHA_deg *rasters.Raster) *rasters.Raster {
	return DaylightFromSHA(SHA_deg).MultiplyScalar(-0.5).AddScalar(12.0)
}
