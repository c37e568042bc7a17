package verma_net_radiation

import "verma_net_radiation/rasters"

/*
Calculate incoming longwave radiation at the surface.

    Args:
        emissivity_atmosphere: atmospheric emissivity, unitless
        Ta_K: air temperature, K
        cloud_mask: optional mask, nonzero where cloudy; may be nil

    Returns:
        incoming longwave radiation, W/m2

    Notes:
        Clear-sky pixels emit with the given atmospheric emissivity. Cloudy
        pixels use the overcast adjustment: the cloud base radiates as a
        blackbody at air temperature.
*/
func IncomingLongwaveRadiation(emissivity_atmosphere, Ta_K, cloud_mask *rasters.Raster) *rasters.Raster {
	// Blackbody emission at air temperature, W/m2
	LWin_overcast := Ta_K.Apply(func(t float64) float64 { return get_sgm() * t * t * t * t })

	// Clear-sky emission scaled by atmospheric emissivity, W/m2
	LWin_clear := emissivity_atmosphere.Multiply(LWin_overcast)

	if cloud_mask == nil {
		return LWin_clear
	}

	return rasters.Where(cloud_mask, LWin_overcast, LWin_clear)
}
