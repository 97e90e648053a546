package pointcloud

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"go.viam.com/sizeprior/logging"
)

// PLYFormat is the body encoding of a PLY file.
type PLYFormat string

// The PLY body encodings.
const (
	PLYAscii        PLYFormat = "ascii"
	PLYBinaryLittle PLYFormat = "binary_little_endian"
	PLYBinaryBig    PLYFormat = "binary_big_endian"
)

const plyVertexElement = "vertex"

type plyProperty struct {
	name string
	typ  string

	// set for list properties only
	isList    bool
	countType string
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   PLYFormat
	elements []plyElement
}

// canonical goply type names, keyed by every spelling the PLY format allows.
var plyTypeNames = map[string]string{
	"char": "char", "int8": "char",
	"uchar": "uchar", "uint8": "uchar",
	"short": "short", "int16": "short",
	"ushort": "ushort", "uint16": "ushort",
	"int": "int", "int32": "int",
	"uint": "uint", "uint32": "uint",
	"float": "float", "float32": "float",
	"double": "double", "float64": "double",
}

var plyTypeSizes = map[string]int{
	"char": 1, "uchar": 1,
	"short": 2, "ushort": 2,
	"int": 4, "uint": 4,
	"float":  4,
	"double": 8,
}

// NewFromPLYFile returns the vertex set of the PLY mesh at fn.
func NewFromPLYFile(fn string, logger logging.Logger) (*Vertices, error) {
	//nolint:gosec
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	vs, err := ReadPLY(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read PLY file %q", fn)
	}
	meta := vs.MetaData()
	logger.Debugw("read PLY file", "file", fn, "vertices", vs.Len(), "has_color", meta.HasColor,
		"min_z", meta.MinZ, "max_z", meta.MaxZ)
	return vs, nil
}

// ReadPLY reads the vertex element of a PLY stream: positions from the x, y and z properties and,
// when present, color from red, green and blue. Other elements are skipped.
func ReadPLY(in io.Reader) (*Vertices, error) {
	reader := bufio.NewReader(in)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}
	vertexElement, ok := header.element(plyVertexElement)
	if !ok {
		return nil, errors.New("PLY file has no vertex element")
	}
	for _, name := range []string{"x", "y", "z"} {
		if !vertexElement.has(name) {
			return nil, errors.Errorf("PLY vertex element has no %q property", name)
		}
	}

	switch header.format {
	case PLYAscii, PLYBinaryLittle, PLYBinaryBig:
	default:
		return nil, errors.Errorf("unsupported PLY format %q", header.format)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read PLY body")
	}
	if err := header.checkCounts(len(body)); err != nil {
		return nil, err
	}

	switch header.format {
	case PLYBinaryLittle:
		return readPLYBinary(bufio.NewReader(bytes.NewReader(body)), header, binary.LittleEndian)
	case PLYBinaryBig:
		return readPLYBinary(bufio.NewReader(bytes.NewReader(body)), header, binary.BigEndian)
	default:
		return readPLYAscii(bytes.NewReader(body), header)
	}
}

// checkCounts rejects element counts that a body of bodyLen bytes cannot hold, so a corrupt
// header never sizes an allocation.
func (h plyHeader) checkCounts(bodyLen int) error {
	remaining := bodyLen
	if h.format == PLYAscii {
		// the last record may omit its newline
		remaining++
	}
	for _, e := range h.elements {
		size := e.minRecordSize(h.format)
		if e.count > remaining/size {
			return errors.Errorf("PLY element %q declares %d records but the body holds at most %d",
				e.name, e.count, remaining/size)
		}
		remaining -= e.count * size
	}
	return nil
}

// minRecordSize is the fewest bytes one record of e takes: every scalar and list length at its
// binary width, or in ascii one character and one separator per token.
func (e plyElement) minRecordSize(format PLYFormat) int {
	size := 0
	for _, p := range e.props {
		typ := p.typ
		if p.isList {
			typ = p.countType
		}
		if format == PLYAscii {
			size += 2
			continue
		}
		size += plyTypeSizes[typ]
	}
	return max(size, 1)
}

func parsePLYHeader(in *bufio.Reader) (plyHeader, error) {
	var header plyHeader
	magic, err := in.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return header, errors.New("missing ply magic line")
	}
	for {
		line, err := in.ReadString('\n')
		if err != nil {
			return header, errors.Wrap(err, "PLY header ended before end_header")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return header, errors.Errorf("bad PLY format line %q", strings.TrimSpace(line))
			}
			header.format = PLYFormat(fields[1])
		case "element":
			if len(fields) != 3 {
				return header, errors.Errorf("bad PLY element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return header, errors.Errorf("bad PLY element count %q", fields[2])
			}
			header.elements = append(header.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(header.elements) == 0 {
				return header, errors.New("PLY property before any element")
			}
			prop, err := parsePLYProperty(fields)
			if err != nil {
				return header, err
			}
			last := &header.elements[len(header.elements)-1]
			last.props = append(last.props, prop)
		case "end_header":
			return header, nil
		case "comment", "obj_info":
		default:
			return header, errors.Errorf("unknown PLY header keyword %q", fields[0])
		}
	}
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) == 5 && fields[1] == "list" {
		countType, ok1 := plyTypeNames[fields[2]]
		itemType, ok2 := plyTypeNames[fields[3]]
		if !ok1 || !ok2 {
			return plyProperty{}, errors.Errorf("bad PLY list property types %q %q", fields[2], fields[3])
		}
		return plyProperty{name: fields[4], typ: itemType, isList: true, countType: countType}, nil
	}
	if len(fields) != 3 {
		return plyProperty{}, errors.Errorf("bad PLY property line %q", strings.Join(fields, " "))
	}
	typ, ok := plyTypeNames[fields[1]]
	if !ok {
		return plyProperty{}, errors.Errorf("bad PLY property type %q", fields[1])
	}
	return plyProperty{name: fields[2], typ: typ}, nil
}

func (h plyHeader) element(name string) (plyElement, bool) {
	for _, e := range h.elements {
		if e.name == name {
			return e, true
		}
	}
	return plyElement{}, false
}

func (e plyElement) has(prop string) bool {
	for _, p := range e.props {
		if p.name == prop {
			return true
		}
	}
	return false
}

func (e plyElement) hasColor() bool {
	return e.has("red") && e.has("green") && e.has("blue")
}

// String renders the element back as header lines using canonical type names.
func (e plyElement) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "element %s %d\n", e.name, e.count)
	for _, p := range e.props {
		if p.isList {
			fmt.Fprintf(&sb, "property list %s %s %s\n", p.countType, p.typ, p.name)
			continue
		}
		fmt.Fprintf(&sb, "property %s %s\n", p.typ, p.name)
	}
	return sb.String()
}

// readPLYAscii hands the body to goply behind a normalized header, since goply rejects type
// aliases and obj_info lines. goply reports malformed input by panicking.
func readPLYAscii(body io.Reader, header plyHeader) (vs *Vertices, err error) {
	var normalized strings.Builder
	normalized.WriteString("ply\nformat ascii 1.0\n")
	for _, e := range header.elements {
		normalized.WriteString(e.String())
	}
	normalized.WriteString("end_header\n")

	defer func() {
		if r := recover(); r != nil {
			vs = nil
			err = errors.Errorf("malformed ascii PLY body: %v", r)
		}
	}()
	ply := goply.New(io.MultiReader(strings.NewReader(normalized.String()), body))

	vertexElement, _ := header.element(plyVertexElement)
	elements := ply.Elements(plyVertexElement)
	if len(elements) != vertexElement.count {
		return nil, errors.Errorf("PLY declares %d vertices but has %d", vertexElement.count, len(elements))
	}
	withColor := vertexElement.hasColor()

	vs = NewVertices(len(elements))
	for i := range elements {
		elem := elements[i]
		var pos r3.Vector
		if pos.X, err = cast.ToFloat64E(elem.Property("x")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d x", i)
		}
		if pos.Y, err = cast.ToFloat64E(elem.Property("y")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d y", i)
		}
		if pos.Z, err = cast.ToFloat64E(elem.Property("z")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d z", i)
		}
		if !withColor {
			vs.Append(pos)
			continue
		}
		c := color.NRGBA{A: 255}
		if c.R, err = cast.ToUint8E(elem.Property("red")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d red", i)
		}
		if c.G, err = cast.ToUint8E(elem.Property("green")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d green", i)
		}
		if c.B, err = cast.ToUint8E(elem.Property("blue")); err != nil {
			return nil, errors.Wrapf(err, "vertex %d blue", i)
		}
		vs.AppendColored(pos, c)
	}
	return vs, nil
}

type plyBinaryReader struct {
	in    *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (r *plyBinaryReader) scalar(typ string) (float64, error) {
	size := plyTypeSizes[typ]
	b := r.buf[:size]
	if _, err := io.ReadFull(r.in, b); err != nil {
		return 0, err
	}
	switch typ {
	case "char":
		return float64(int8(b[0])), nil
	case "uchar":
		return float64(b[0]), nil
	case "short":
		return float64(int16(r.order.Uint16(b))), nil
	case "ushort":
		return float64(r.order.Uint16(b)), nil
	case "int":
		return float64(int32(r.order.Uint32(b))), nil
	case "uint":
		return float64(r.order.Uint32(b)), nil
	case "float":
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	case "double":
		return math.Float64frombits(r.order.Uint64(b)), nil
	}
	return 0, errors.Errorf("unknown PLY type %q", typ)
}

// skipList discards one list property value.
func (r *plyBinaryReader) skipList(p plyProperty) error {
	count, err := r.scalar(p.countType)
	if err != nil {
		return err
	}
	if count < 0 {
		return errors.Errorf("negative list length for %q", p.name)
	}
	_, err = r.in.Discard(int(count) * plyTypeSizes[p.typ])
	return err
}

func readPLYBinary(in *bufio.Reader, header plyHeader, order binary.ByteOrder) (*Vertices, error) {
	r := &plyBinaryReader{in: in, order: order}
	for _, e := range header.elements {
		if e.name != plyVertexElement {
			if err := r.skipElement(e); err != nil {
				return nil, errors.Wrapf(err, "cannot skip PLY element %q", e.name)
			}
			continue
		}
		return r.readVertices(e)
	}
	return nil, errors.New("PLY file has no vertex element")
}

func (r *plyBinaryReader) skipElement(e plyElement) error {
	for i := 0; i < e.count; i++ {
		for _, p := range e.props {
			if p.isList {
				if err := r.skipList(p); err != nil {
					return err
				}
				continue
			}
			if _, err := r.in.Discard(plyTypeSizes[p.typ]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *plyBinaryReader) readVertices(e plyElement) (*Vertices, error) {
	withColor := e.hasColor()
	vs := NewVertices(e.count)
	values := make(map[string]float64, len(e.props))
	for i := 0; i < e.count; i++ {
		for _, p := range e.props {
			if p.isList {
				if err := r.skipList(p); err != nil {
					return nil, errors.Wrapf(err, "vertex %d", i)
				}
				continue
			}
			v, err := r.scalar(p.typ)
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d %s", i, p.name)
			}
			values[p.name] = v
		}
		pos := r3.Vector{X: values["x"], Y: values["y"], Z: values["z"]}
		if !withColor {
			vs.Append(pos)
			continue
		}
		vs.AppendColored(pos, color.NRGBA{
			R: uint8(values["red"]),
			G: uint8(values["green"]),
			B: uint8(values["blue"]),
			A: 255,
		})
	}
	return vs, nil
}
