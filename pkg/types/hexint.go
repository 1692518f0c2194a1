package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HexInt is an integer identifier that is rendered as a 0x-prefixed, zero-padded hex string,
// the way PCI ids are written in lspci output and in the pci.ids database.
type HexInt int

func (h HexInt) String() string {
	return fmt.Sprintf("0x%04x", int(h))
}

func (h HexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *HexInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Plain JSON numbers are accepted as well
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return fmt.Errorf("hex int must be a string or a number: %s", data)
		}
		*h = HexInt(i)
		return nil
	}
	return h.parse(s)
}

func (h HexInt) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

func (h *HexInt) UnmarshalYAML(value *yaml.Node) error {
	return h.parse(value.Value)
}

func (h *HexInt) parse(s string) error {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	val, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return fmt.Errorf("invalid hex int %q: %w", s, err)
	}
	*h = HexInt(val)
	return nil
}
