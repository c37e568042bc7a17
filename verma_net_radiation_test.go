package verma_net_radiation

import (
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verma_net_radiation/rasters"
)

type goldenRow struct {
	ST_C       float64 `csv:"ST_C"`
	Emissivity float64 `csv:"emissivity"`
	Albedo     float64 `csv:"albedo"`
	SWin       float64 `csv:"SWin"`
	Ta_C       float64 `csv:"Ta_C"`
	RH         float64 `csv:"RH"`
	SWout      float64 `csv:"SWout"`
	LWin       float64 `csv:"LWin"`
	LWout      float64 `csv:"LWout"`
	Rn         float64 `csv:"Rn"`
}

// TestGoldenScenarios checks the four components against reference values
// computed independently with the same three helper formulas.
func TestGoldenScenarios(t *testing.T) {
	f, err := os.Open("testdata/verma_golden.csv")
	require.NoError(t, err)
	defer f.Close()

	var rows []*goldenRow
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	require.NotEmpty(t, rows)

	for _, row := range rows {
		results, err := VermaNetRadiation(Inputs{
			ST_C:       rasters.Scalar(row.ST_C),
			Emissivity: rasters.Scalar(row.Emissivity),
			Albedo:     rasters.Scalar(row.Albedo),
			SWin:       rasters.Scalar(row.SWin),
			Ta_C:       rasters.Scalar(row.Ta_C),
			RH:         rasters.Scalar(row.RH),
		})
		require.NoError(t, err)

		assert.InDelta(t, row.SWout, results.SWout.Value(), 1e-3)
		assert.InDelta(t, row.LWin, results.LWin.Value(), 1e-3)
		assert.InDelta(t, row.LWout, results.LWout.Value(), 1e-3)
		assert.InDelta(t, row.Rn, results.Rn.Value(), 1e-3)
	}
}

// TestGoldenScenarioComponents traces the reference scenario ST_C=25, Ta_C=20,
// RH=0.5, SWin=800 through each derived quantity.
func TestGoldenScenarioComponents(t *testing.T) {
	results, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(25),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		SWin:       rasters.Scalar(800),
		Ta_C:       rasters.Scalar(20),
		RH:         rasters.Scalar(0.5),
	})
	require.NoError(t, err)

	// SWout = 800 * 0.2
	assert.InDelta(t, 160.0, results.SWout.Value(), 1e-9)

	// Magnus vapor pressure at Ta_K = 293.15, halved by RH
	Ta_K := 293.15
	Ea_Pa := 0.5 * 0.6113 * math.Pow(10.0, 7.5*(Ta_K-273.15)/(Ta_K-35.85)) * 1000.0
	assert.InDelta(t, 1170.04, Ea_Pa, 0.01)

	// The same helper formulas applied to the derived vapor pressure
	emissivity_atmosphere := 1.24 * math.Pow((Ea_Pa/100.0)/Ta_K, 1.0/7.0)
	LWin := emissivity_atmosphere * 5.67e-8 * math.Pow(Ta_K, 4)
	LWout := 0.98 * 5.67e-8 * math.Pow(298.15, 4)
	assert.InDelta(t, LWin, results.LWin.Value(), 1e-9)
	assert.InDelta(t, LWout, results.LWout.Value(), 1e-9)
	assert.InDelta(t, 640.0+LWin-LWout, results.Rn.Value(), 1e-9)
}

// TestAlbedoClipped verifies out-of-range albedo behaves as its clipped value.
func TestAlbedoClipped(t *testing.T) {
	base := Inputs{
		ST_C:       rasters.Scalar(15),
		Emissivity: rasters.Scalar(0.98),
		SWin:       rasters.Scalar(600),
		Ta_C:       rasters.Scalar(14),
		RH:         rasters.Scalar(0.55),
	}

	over := base
	over.Albedo = rasters.Scalar(1.5)
	overResults, err := VermaNetRadiation(over)
	require.NoError(t, err)

	unit := base
	unit.Albedo = rasters.Scalar(1.0)
	unitResults, err := VermaNetRadiation(unit)
	require.NoError(t, err)

	assert.Equal(t, unitResults.SWout.Value(), overResults.SWout.Value())
	assert.Equal(t, unitResults.Rn.Value(), overResults.Rn.Value())

	under := base
	under.Albedo = rasters.Scalar(-0.3)
	underResults, err := VermaNetRadiation(under)
	require.NoError(t, err)
	assert.Equal(t, 0.0, underResults.SWout.Value())
}

// TestNonNegativeComponents exercises a strongly negative net longwave: hot
// dry surface under a cold clear sky at night.
func TestNonNegativeComponents(t *testing.T) {
	results, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(40),
		Emissivity: rasters.Scalar(0.99),
		Albedo:     rasters.Scalar(0.3),
		SWin:       rasters.Scalar(0),
		Ta_C:       rasters.Scalar(-10),
		RH:         rasters.Scalar(0.2),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, results.SWout.Value(), 0.0)
	assert.Less(t, results.LWin.Value(), results.LWout.Value())
	assert.Equal(t, 0.0, results.Rn.Value())
}

// TestConservationIdentity verifies Rn equals the unclamped component sum
// whenever that sum is non-negative, and zero only when it is negative.
func TestConservationIdentity(t *testing.T) {
	cases := []struct {
		name string
		SWin float64
	}{
		{"daytime", 800},
		{"night", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			results, err := VermaNetRadiation(Inputs{
				ST_C:       rasters.Scalar(25),
				Emissivity: rasters.Scalar(0.98),
				Albedo:     rasters.Scalar(0.2),
				SWin:       rasters.Scalar(c.SWin),
				Ta_C:       rasters.Scalar(20),
				RH:         rasters.Scalar(0.5),
			})
			require.NoError(t, err)

			SWnet := c.SWin - results.SWout.Value()
			unclamped := SWnet + results.LWin.Value() - results.LWout.Value()
			if unclamped >= 0 {
				assert.InDelta(t, unclamped, results.Rn.Value(), 1e-9)
			} else {
				assert.Equal(t, 0.0, results.Rn.Value())
			}
		})
	}
}

// TestNightTime verifies SWin=0 zeroes the shortwave components and reduces
// Rn to the clamped longwave balance.
func TestNightTime(t *testing.T) {
	results, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(18),
		Emissivity: rasters.Scalar(0.97),
		Albedo:     rasters.Scalar(0.25),
		SWin:       rasters.Scalar(0),
		Ta_C:       rasters.Scalar(16),
		RH:         rasters.Scalar(0.7),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, results.SWout.Value())
	expected := math.Max(0, results.LWin.Value()-results.LWout.Value())
	assert.InDelta(t, expected, results.Rn.Value(), 1e-9)
}

// TestMissingInputs verifies the terminal required-value check names the
// specific variable when neither a value nor spatial/temporal context is
// available.
func TestMissingInputs(t *testing.T) {
	complete := func() Inputs {
		return Inputs{
			ST_C:       rasters.Scalar(25),
			Emissivity: rasters.Scalar(0.98),
			Albedo:     rasters.Scalar(0.2),
			SWin:       rasters.Scalar(800),
			Ta_C:       rasters.Scalar(20),
			RH:         rasters.Scalar(0.5),
		}
	}

	cases := []struct {
		symbol string
		drop   func(*Inputs)
	}{
		{"SWin", func(in *Inputs) { in.SWin = nil }},
		{"Ta_C", func(in *Inputs) { in.Ta_C = nil }},
		{"RH", func(in *Inputs) { in.RH = nil }},
	}
	for _, c := range cases {
		t.Run(c.symbol, func(t *testing.T) {
			in := complete()
			c.drop(&in)
			_, err := VermaNetRadiation(in)
			var missing *MissingInputError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, c.symbol, missing.Symbol)
			assert.Contains(t, err.Error(), c.symbol)
		})
	}
}

// TestCloudMask verifies cloudy pixels use the overcast formulation, which
// exceeds the clear-sky value whenever atmospheric emissivity is below one.
func TestCloudMask(t *testing.T) {
	in := Inputs{
		ST_C:       rasters.FromSlice([]float64{25, 25}),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		SWin:       rasters.Scalar(800),
		Ta_C:       rasters.Scalar(20),
		RH:         rasters.Scalar(0.5),
	}

	clear, err := VermaNetRadiation(in)
	require.NoError(t, err)

	in.CloudMask = rasters.FromSlice([]float64{1, 0})
	masked, err := VermaNetRadiation(in)
	require.NoError(t, err)

	assert.Greater(t, masked.LWin.Get(0), clear.LWin.Get(0))
	assert.Equal(t, clear.LWin.Get(1), masked.LWin.Get(1))
	assert.Greater(t, masked.Rn.Get(0), clear.Rn.Get(0))
}

// TestGeoreferencedInput verifies a georeferenced surface temperature, with
// no explicit geometry, georeferences all four outputs with its geometry.
func TestGeoreferencedInput(t *testing.T) {
	geometry := rasters.GridGeometry(2, 2, -120.0, 34.0, -119.0, 35.0)
	results, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.NewRaster([]float64{24, 25, 26, 27}, geometry),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		SWin:       rasters.Scalar(800),
		Ta_C:       rasters.Scalar(20),
		RH:         rasters.Scalar(0.5),
	})
	require.NoError(t, err)

	for _, result := range []*rasters.Raster{results.SWout, results.LWin, results.LWout, results.Rn} {
		require.True(t, result.IsGeoreferenced())
		assert.Same(t, geometry, result.Geometry)
		assert.Equal(t, []int{2, 2}, result.Shape)
	}

	// Warmer surface emits more
	assert.Greater(t, results.LWout.Get(1, 1), results.LWout.Get(0, 0))
}

// fakeSource substitutes the GEOS-5 FP connection in tests.
type fakeSource struct {
	SWin_value  *rasters.Raster
	Ta_C_value  *rasters.Raster
	RH_value    *rasters.Raster
	requested   []string
	resamplings []string
}

func (f *fakeSource) SWin(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	f.requested = append(f.requested, "SWin")
	f.resamplings = append(f.resamplings, resampling)
	return f.SWin_value, nil
}

func (f *fakeSource) Ta_C(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	f.requested = append(f.requested, "Ta_C")
	f.resamplings = append(f.resamplings, resampling)
	return f.Ta_C_value, nil
}

func (f *fakeSource) RH(timeUTC time.Time, geometry *rasters.RasterGeometry, resampling string) (*rasters.Raster, error) {
	f.requested = append(f.requested, "RH")
	f.resamplings = append(f.resamplings, resampling)
	return f.RH_value, nil
}

// TestRetrievalCascade verifies missing meteorological inputs are retrieved
// from the injected reanalysis source, in order, with the default resampling
// method, and that supplied inputs are never retrieved.
func TestRetrievalCascade(t *testing.T) {
	geometry := rasters.GridGeometry(1, 1, -120.0, 34.0, -119.9, 34.1)
	timeUTC := time.Date(2022, 6, 21, 18, 30, 0, 0, time.UTC)
	source := &fakeSource{
		SWin_value: rasters.Scalar(800),
		Ta_C_value: rasters.Scalar(20),
		RH_value:   rasters.Scalar(0.5),
	}

	retrieved, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(25),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		Geometry:   geometry,
		TimeUTC:    timeUTC,
		Connection: source,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SWin", "Ta_C", "RH"}, source.requested)
	assert.Equal(t, []string{ResamplingMethod, ResamplingMethod, ResamplingMethod}, source.resamplings)

	direct, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(25),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		SWin:       rasters.Scalar(800),
		Ta_C:       rasters.Scalar(20),
		RH:         rasters.Scalar(0.5),
	})
	require.NoError(t, err)
	// Results carry the requested geometry as a 1x1 grid.
	require.True(t, retrieved.Rn.IsGeoreferenced())
	assert.Equal(t, direct.Rn.Value(), retrieved.Rn.Get(0, 0))

	// Supplied inputs short-circuit the cascade.
	source.requested = nil
	_, err = VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(25),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		SWin:       rasters.Scalar(800),
		Ta_C:       rasters.Scalar(20),
		RH:         rasters.Scalar(0.5),
		Geometry:   geometry,
		TimeUTC:    timeUTC,
		Connection: source,
	})
	require.NoError(t, err)
	assert.Empty(t, source.requested)
}

// TestRetrievalErrorPropagates verifies collaborator failures pass through
// unmodified rather than being reported as missing inputs.
func TestRetrievalErrorPropagates(t *testing.T) {
	geometry := rasters.GridGeometry(1, 1, -120.0, 34.0, -119.9, 34.1)
	sourceErr := errors.New("reanalysis unavailable")

	_, err := VermaNetRadiation(Inputs{
		ST_C:       rasters.Scalar(25),
		Emissivity: rasters.Scalar(0.98),
		Albedo:     rasters.Scalar(0.2),
		Geometry:   geometry,
		TimeUTC:    time.Date(2022, 6, 21, 18, 30, 0, 0, time.UTC),
		Connection: &erroringSource{err: sourceErr},
	})
	require.ErrorIs(t, err, sourceErr)
	var missing *MissingInputError
	assert.False(t, errors.As(err, &missing))
}

type erroringSource struct {
	err error
}

func (s *erroringSource) SWin(time.Time, *rasters.RasterGeometry, string) (*rasters.Raster, error) {
	return nil, s.err
}

func (s *erroringSource) Ta_C(time.Time, *rasters.RasterGeometry, string) (*rasters.Raster, error) {
	return nil, s.err
}

func (s *erroringSource) RH(time.Time, *rasters.RasterGeometry, string) (*rasters.Raster, error) {
	return nil, s.err
}
