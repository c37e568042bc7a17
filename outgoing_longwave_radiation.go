package verma_net_radiation

import "verma_net_radiation/rasters"

/*
Calculate outgoing longwave radiation from the land surface.

    Args:
        emissivity: surface emissivity, unitless
        ST_K: surface temperature, K

    Returns:
        outgoing longwave radiation, W/m2

    Notes:
        Stefan-Boltzmann emission scaled by surface emissivity.
*/
func OutgoingLongwaveRadiation(emissivity, ST_K *rasters.Raster) *rasters.Raster {
	return emissivity.Multiply(
		ST_K.Apply(func(t float64) float64 { return get_sgm() * t * t * t * t }))
}
