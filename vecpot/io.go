package vecpot

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"
)

/*
The binary format used for vector potential grids is as follows:
    |-- 1 --||-- 2 --||-- ... 3 ... --||-- ... 4 ... --||-- ... 5 ... --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates a
        big endian byte ordering and -1 indicates a little endian byte
        order.
    2 - (int32) Size of the fieldHeader struct. Should be checked for
        consistency.
    3 - (fieldHeader) Header containing the grid dimensions.
    4 - ([]float64) The three coordinate axes, back to back.
    5 - ([]float64) The three component volumes, back to back, x-major.
*/
type fieldHeader struct {
	Nx, Ny, Nz int64
}

// Endianness flag written at the head of every grid file.
const littleEndianFlag int32 = -1

// WriteField writes the field to path in the grid file format, little
// endian.
func WriteField(path string, f *Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	order := binary.ByteOrder(binary.LittleEndian)
	hd := fieldHeader{int64(f.N[0]), int64(f.N[1]), int64(f.N[2])}

	if err := binary.Write(file, order, littleEndianFlag); err != nil {
		return err
	}
	hdSize := int32(unsafe.Sizeof(hd))
	if err := binary.Write(file, order, hdSize); err != nil {
		return err
	}
	if err := binary.Write(file, order, &hd); err != nil {
		return err
	}
	for d := 0; d < 3; d++ {
		if err := binary.Write(file, order, f.Coords[d]); err != nil {
			return err
		}
	}
	for c := 0; c < 3; c++ {
		if err := binary.Write(file, order, f.A[c]); err != nil {
			return err
		}
	}

	return nil
}

// ReadField reads a grid file written by WriteField. Files of either
// endianness can be read.
func ReadField(path string) (*Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var flag int32
	if err := binary.Read(file, binary.LittleEndian, &flag); err != nil {
		return nil, err
	}
	var order binary.ByteOrder = binary.LittleEndian
	if flag == 0 {
		order = binary.BigEndian
	} else if flag != littleEndianFlag {
		return nil, fmt.Errorf(
			"%s is not a vector potential grid file: bad endianness "+
				"flag %d", path, flag,
		)
	}

	var hd fieldHeader
	var hdSize int32
	if err := binary.Read(file, order, &hdSize); err != nil {
		return nil, err
	}
	if hdSize != int32(unsafe.Sizeof(hd)) {
		return nil, fmt.Errorf(
			"%s has header size %d, expected %d: version mismatch",
			path, hdSize, unsafe.Sizeof(hd),
		)
	}
	if err := binary.Read(file, order, &hd); err != nil {
		return nil, err
	}

	n := [3]int{int(hd.Nx), int(hd.Ny), int(hd.Nz)}
	var coords [3][]float64
	for d := 0; d < 3; d++ {
		coords[d] = make([]float64, n[d])
		if err := binary.Read(file, order, coords[d]); err != nil {
			return nil, readErr(path, err)
		}
	}

	vol := n[0] * n[1] * n[2]
	comps := make([][]float64, 3)
	for c := 0; c < 3; c++ {
		comps[c] = make([]float64, vol)
		if err := binary.Read(file, order, comps[c]); err != nil {
			return nil, readErr(path, err)
		}
	}

	return NewField(coords, comps[0], comps[1], comps[2])
}

func readErr(path string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%s is truncated", path)
	}
	return err
}
