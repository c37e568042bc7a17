package verma_net_radiation

import (
	"math"

	"verma_net_radiation/rasters"
)

/*
Calculate atmospheric emissivity using the Brutsaert (1975) clear-sky model.

    Args:
        Ea_Pa: actual water vapor pressure, Pa
        Ta_K: air temperature, K

    Returns:
        atmospheric emissivity, unitless

    Notes:
        Brutsaert, W. (1975). On a derivable formula for long-wave radiation
        from clear skies. Water Resources Research, 11(5), 742-744.
        The vapor pressure enters in hPa, so Ea_Pa is divided by 100.
*/
func BrutsaertAtmosphericEmissivity(Ea_Pa, Ta_K *rasters.Raster) *rasters.Raster {
	return Ea_Pa.MultiplyScalar(1.0/100.0).
		Divide(Ta_K).
		Apply(func(v float64) float64 { return math.Pow(v, 1.0/7.0) }).
		MultiplyScalar(1.24)
}
