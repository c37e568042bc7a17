package verma_net_radiation

// Default resampling method for GEOS-5 FP data retrievals.
const ResamplingMethod = "cubic"

// Stefan-Boltzmann constant, W/m2 K4
func get_sgm() float64 {
	return 5.67e-8
}

// 0 degree C expressed in K
func get_t_0() float64 {
	return 273.15
}
