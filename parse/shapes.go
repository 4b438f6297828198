package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"nextbus.dev/nextbus/model"
	"nextbus.dev/nextbus/storage"
)

type ShapePointCSV struct {
	ShapeID  string  `csv:"shape_id"`
	Lat      float64 `csv:"shape_pt_lat"`
	Lon      float64 `csv:"shape_pt_lon"`
	Sequence string  `csv:"shape_pt_sequence"`
}

// A shape is the ordered set of rows sharing a shape_id, so shape_id
// is deliberately not treated as a primary key: every row is
// imported.
func ParseShapes(store storage.Store, data io.Reader) error {
	if err := store.BeginShapes(); err != nil {
		return fmt.Errorf("beginning shapes: %w", err)
	}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(p *ShapePointCSV) error {
		i++
		if p.ShapeID == "" {
			return fmt.Errorf("missing shape_id (row %d)", i+1)
		}

		err := store.WriteShapePoint(&model.ShapePoint{
			ShapeID:  p.ShapeID,
			Lat:      p.Lat,
			Lon:      p.Lon,
			Sequence: p.Sequence,
		})
		if err != nil {
			return errors.Wrapf(err, "writing shape point (row %d)", i+1)
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling shapes csv")
	}

	if err := store.EndShapes(); err != nil {
		return fmt.Errorf("ending shapes: %w", err)
	}

	return nil
}
