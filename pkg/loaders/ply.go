package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons fan-triangulated
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY parses ASCII or binary PLY data from r
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024) // 1MB buffer

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		values = &asciiReader{scanner: newWordScanner(reader)}
	case "binary_little_endian":
		values = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data, err := readElements(header, values)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if header.VertexCount > 0 {
		for _, name := range []string{"x", "y", "z"} {
			if !hasProperty(header.VertexProps, name) {
				return nil, fmt.Errorf("vertex element has no %q property", name)
			}
		}
	}
	return header, nil
}

func hasProperty(props []PLYProperty, name string) bool {
	for _, prop := range props {
		if prop.Name == name && !prop.IsList {
			return true
		}
	}
	return false
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if getTypeSize(prop.Type) == 0 && !prop.IsList {
		return PLYProperty{}, fmt.Errorf("unknown property type %q", prop.Type)
	}
	if prop.IsList && (getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0) {
		return PLYProperty{}, fmt.Errorf("unknown list types %q %q", prop.ListType, prop.DataType)
	}
	return prop, nil
}

// readElements reads the vertex element followed by the face element
func readElements(header *PLYHeader, values valueReader) (*PLYData, error) {
	vertices := make([]core.Vec3, 0, header.VertexCount)
	faces := make([]int, 0, header.FaceCount*3) // Assuming triangular faces

	for i := 0; i < header.VertexCount; i++ {
		var position [3]float64
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if _, err := readList(values, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position[0] = value
			case "y":
				position[1] = value
			case "z":
				position[2] = value
			}
		}
		vertices = append(vertices, core.NewVec3(position[0], position[1], position[2]))
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := values.read(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			indices, err := readList(values, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(indices) < 3 {
				return nil, fmt.Errorf("face %d has %d vertices", i, len(indices))
			}

			// Fan triangulation for polygons
			for k := 1; k+1 < len(indices); k++ {
				faces = append(faces, int(indices[0]), int(indices[k]), int(indices[k+1]))
			}
		}
	}

	for _, idx := range faces {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("face index %d out of range [0, %d)", idx, len(vertices))
		}
	}

	return &PLYData{Vertices: vertices, Faces: faces}, nil
}

// readList reads a list property: a count followed by that many values
func readList(values valueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.read(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("list %s count: %w", prop.Name, err)
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("list %s has invalid count %v", prop.Name, count)
	}

	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.read(prop.DataType); err != nil {
			return nil, fmt.Errorf("list %s item %d: %w", prop.Name, i, err)
		}
	}
	return list, nil
}

// getTypeSize returns the byte size of a PLY scalar type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// valueReader yields successive scalar values of the body as float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type binaryReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (br *binaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %q", dataType)
	}
	b := br.buf[:size]
	if _, err := io.ReadFull(br.reader, b); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(br.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(br.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(br.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(br.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(br.order.Uint32(b))), nil
	default:
		return math.Float64frombits(br.order.Uint64(b)), nil
	}
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return scanner
}

func (ar *asciiReader) read(dataType string) (float64, error) {
	if !ar.scanner.Scan() {
		if err := ar.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(ar.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, ar.scanner.Text())
	}
	return value, nil
}
