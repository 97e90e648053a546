package pointcloud

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sizeprior/logging"
	"go.viam.com/sizeprior/utils"
)

// NewFromFile returns the vertex set read in from the given mesh file. A missing file is
// reported as a *utils.FileNotFoundError.
func NewFromFile(fn string, logger logging.Logger) (*Vertices, error) {
	if err := utils.CheckFileExists(fn); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".ply":
		return NewFromPLYFile(fn, logger)
	case ".las":
		return NewFromLASFile(fn, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// pointValueDataTag encodes if the point has value data.
const pointValueDataTag = "rc|pv"

// NewFromLASFile returns a vertex set from reading a LAS file. Point order is preserved.
func NewFromLASFile(fn string, logger logging.Logger) (vs *Vertices, err error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	vs = NewVertices(lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		data := p.PointData()
		v := r3.Vector{X: data.X, Y: data.Y, Z: data.Z}

		if lf.Header.PointFormatID == 2 && p.RgbData() != nil {
			r := uint8(p.RgbData().Red / 256)
			g := uint8(p.RgbData().Green / 256)
			b := uint8(p.RgbData().Blue / 256)
			vs.AppendColored(v, color.NRGBA{r, g, b, 255})
			continue
		}
		vs.Append(v)
	}
	logger.Debugw("read LAS file", "file", fn, "vertices", vs.Len())
	return vs, nil
}

// WriteToLASFile writes the vertex set out to a LAS file. When values is non-nil it must have
// one entry per vertex; the values are stored alongside the points so that labeled scans can be
// inspected in any LAS viewer.
func WriteToLASFile(vs *Vertices, values []int, fn string) (err error) {
	if values != nil && len(values) != vs.Len() {
		return errors.Errorf("have %d values for %d vertices", len(values), vs.Len())
	}
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	meta := vs.MetaData()

	pointFormatID := 0
	if meta.HasColor {
		pointFormatID = 2
	}
	if err = lf.AddHeader(lidario.LasHeader{
		PointFormatID: byte(pointFormatID),
	}); err != nil {
		return
	}

	for i, pos := range vs.Positions {
		var lp lidario.LasPointer
		pr0 := &lidario.PointRecord0{
			X: pos.X,
			Y: pos.Y,
			Z: pos.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3) | (0 << 6) | (0 << 7),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			ScanAngle:     0,
			UserData:      0,
			PointSourceID: 1,
		}
		lp = pr0

		if meta.HasColor {
			c := vs.Colors[i]
			lp = &lidario.PointRecord2{
				PointRecord0: pr0,
				RGB: &lidario.RgbData{
					Red:   uint16(c.R) * 256,
					Green: uint16(c.G) * 256,
					Blue:  uint16(c.B) * 256,
				},
			}
		}
		if err = lf.AddLasPoint(lp); err != nil {
			return
		}
	}
	if values != nil {
		var buf bytes.Buffer
		for _, v := range values {
			bytes := make([]byte, 8)
			binary.LittleEndian.PutUint64(bytes, uint64(v))
			buf.Write(bytes)
		}
		if err = lf.AddVLR(lidario.VLR{
			UserID:                  "",
			Description:             pointValueDataTag,
			BinaryData:              buf.Bytes(),
			RecordLengthAfterHeader: buf.Len(),
		}); err != nil {
			return
		}
	}

	// nolint:nakedret
	return
}

// ReadLASValues returns the per-point values stored by WriteToLASFile, or nil if the file has
// none.
func ReadLASValues(fn string) (values []int, err error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	for _, d := range lf.VlrData {
		if d.Description != pointValueDataTag {
			continue
		}
		if len(d.BinaryData) != 8*lf.Header.NumberPoints {
			return nil, errors.Errorf("value data has %d bytes for %d points", len(d.BinaryData), lf.Header.NumberPoints)
		}
		values = make([]int, lf.Header.NumberPoints)
		for i := range values {
			values[i] = int(binary.LittleEndian.Uint64(d.BinaryData[i*8 : (i*8)+8]))
		}
		return values, nil
	}
	return nil, nil
}
