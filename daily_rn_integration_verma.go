package verma_net_radiation

import (
	"fmt"
	"math"

	"verma_net_radiation/rasters"
)

/*
Integrate instantaneous net radiation to a daily average using solar geometry.

    Args:
        Rn_Wm2: instantaneous net radiation, W/m2
        hour_of_day: hour of the day (0-24) when Rn was observed
        day_of_year: day of the year (1-365); may be nil when sunrise_hour
            and daylight_hours are given
        lat: latitude, degrees; may be nil under the same condition
        sunrise_hour: local hour of sunrise; computed from day_of_year and
            lat when nil
        daylight_hours: total daylight hours; computed like sunrise_hour

    Returns:
        daily average net radiation, W/m2

    Notes:
        Rn_daily = 1.6 Rn / (pi sin(pi (hour - sunrise) / daylight)),
        after Verma et al. (2016). Multiply by daylight_hours * 3600 to
        obtain total daily energy, J/m2.
*/
func DailyRnIntegrationVerma(
	Rn_Wm2, hour_of_day, day_of_year, lat, sunrise_hour, daylight_hours *rasters.Raster,
) (*rasters.Raster, error) {
	if (daylight_hours == nil || sunrise_hour == nil) && day_of_year != nil && lat != nil {
		SHA_deg := SHADegFromDOYLat(day_of_year, lat)
		daylight_hours = DaylightFromSHA(SHA_deg)
		sunrise_hour = SunriseFromSHA(SHA_deg)
	}

	if daylight_hours == nil || sunrise_hour == nil {
		return nil, fmt.Errorf("sunrise hour and daylight hours not given and not derivable without day of year and latitude")
	}

	Rn_daily := Rn_Wm2.MultiplyScalar(1.6).Divide(
		hour_of_day.Subtract(sunrise_hour).
			Divide(daylight_hours).
			Apply(func(v float64) float64 { return math.Pi * math.Sin(math.Pi*v) }))

	return Rn_daily, nil
}
