package rasters

import "fmt"

// RasterGeometry describes a regular grid: its dimensions, the bounding box
// it covers, and the coordinate reference system of the bounds.
type RasterGeometry struct {
	Rows int
	Cols int
	XMin float64
	YMin float64
	XMax float64
	YMax float64
	CRS  string
}

// GridGeometry builds a geometry over the given bounds in EPSG:4326.
func GridGeometry(rows, cols int, xmin, ymin, xmax, ymax float64) *RasterGeometry {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Errorf("rasters: invalid grid dimensions %vx%v", rows, cols))
	}
	return &RasterGeometry{
		Rows: rows,
		Cols: cols,
		XMin: xmin,
		YMin: ymin,
		XMax: xmax,
		YMax: ymax,
		CRS:  "EPSG:4326",
	}
}

// CellWidth is the east-west size of one grid cell.
func (g *RasterGeometry) CellWidth() float64 {
	return (g.XMax - g.XMin) / float64(g.Cols)
}

// CellHeight is the north-south size of one grid cell.
func (g *RasterGeometry) CellHeight() float64 {
	return (g.YMax - g.YMin) / float64(g.Rows)
}

func (g *RasterGeometry) String() string {
	return fmt.Sprintf("%vx%v grid (%v, %v, %v, %v) %v",
		g.Rows, g.Cols, g.XMin, g.YMin, g.XMax, g.YMax, g.CRS)
}
