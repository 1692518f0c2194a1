package pci

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpnorenam/device-scan/pkg/types"
)

// rawBus replays lspci output instead of reading the host bus
type rawBus struct {
	lsPci string
}

// NewRawBus returns a Bus that reports the devices listed in the output of `lspci -vmmnD`.
// The numeric-and-name form produced by `lspci -vmmnnD` is accepted as well.
func NewRawBus(lsPci string) Bus {
	return &rawBus{lsPci: lsPci}
}

func (b *rawBus) Open() (Session, error) {
	return &rawSession{lsPci: b.lsPci}, nil
}

type rawSession struct {
	lsPci  string
	closed bool
}

func (s *rawSession) Scan() ([]Descriptor, error) {
	if s.closed {
		return nil, fmt.Errorf("scan on closed session")
	}
	return ParseLsPci(s.lsPci)
}

func (s *rawSession) Close() error {
	s.closed = true
	return nil
}

// ParseLsPci parses the machine readable output of `lspci -vmmnD`. Records are separated by empty lines.
func ParseLsPci(lsPci string) ([]Descriptor, error) {
	var descriptors []Descriptor

	var current map[string]string
	flush := func() error {
		if current == nil {
			return nil
		}
		descriptor, err := parseLsPciRecord(current)
		if err != nil {
			return err
		}
		descriptors = append(descriptors, descriptor)
		current = nil
		return nil
	}

	scanner := bufio.NewScanner(strings.NewReader(lsPci))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %d: expected key: value, got %q", lineNumber, line)
		}
		if current == nil {
			current = make(map[string]string)
		}
		current[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lspci data: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return descriptors, nil
}

func parseLsPciRecord(record map[string]string) (Descriptor, error) {
	var descriptor Descriptor

	slot, found := record["Slot"]
	if !found {
		return descriptor, fmt.Errorf("lspci record without slot")
	}
	addr, err := types.ParsePciAddress(slot)
	if err != nil {
		return descriptor, err
	}
	descriptor.Address = addr

	fields := []struct {
		key  string
		dest *uint16
	}{
		{"Class", &descriptor.Class},
		{"Vendor", &descriptor.VendorId},
		{"Device", &descriptor.DeviceId},
	}
	for _, field := range fields {
		value, found := record[field.key]
		if !found {
			return descriptor, fmt.Errorf("%s: missing %s", slot, field.key)
		}
		id, err := parseLsPciId(value)
		if err != nil {
			return descriptor, fmt.Errorf("%s: %s: %w", slot, field.key, err)
		}
		*field.dest = id
	}

	return descriptor, nil
}

// parseLsPciId takes either a bare hex id (8086) or a name with the id in brackets (Intel Corporation [8086])
func parseLsPciId(value string) (uint16, error) {
	if strings.HasSuffix(value, "]") {
		if i := strings.LastIndex(value, "["); i >= 0 {
			value = value[i+1 : len(value)-1]
		}
	}
	id, err := strconv.ParseUint(value, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint16(id), nil
}
