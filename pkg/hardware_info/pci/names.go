package pci

import (
	"fmt"

	"github.com/jaypipes/pcidb"
	builtindb "github.com/siderolabs/go-pcidb/pkg/pcidb"
	log "github.com/sirupsen/logrus"
)

// Name sources for NewNameResolver
const (
	NamesAuto    = "auto"
	NamesPciIds  = "pci.ids"
	NamesBuiltin = "builtin"
	NamesNone    = "none"
)

// NameResolver maps PCI ids to human-readable names. A missing entry is not an error.
type NameResolver interface {
	VendorName(vendorId uint16) (string, bool)
	DeviceName(vendorId, deviceId uint16) (string, bool)
}

// NewNameResolver returns the resolver for the given source. pciIdsPath points at a pci.ids or pci.ids.gz file;
// when empty, the database is discovered in the usual system locations.
func NewNameResolver(source string, pciIdsPath string) (NameResolver, error) {
	switch source {
	case NamesPciIds:
		return NewPciIdsResolver(pciIdsPath)
	case NamesBuiltin:
		return builtinResolver{}, nil
	case NamesNone:
		return noNames{}, nil
	case NamesAuto, "":
		pciIds, err := NewPciIdsResolver(pciIdsPath)
		if err != nil {
			log.Warnf("Falling back to built-in pci id database: %v", err)
			return builtinResolver{}, nil
		}
		return chainResolver{pciIds, builtinResolver{}}, nil
	default:
		return nil, fmt.Errorf("unknown name source %q", source)
	}
}

// pciIdsResolver looks up names in a pci.ids database file
type pciIdsResolver struct {
	db *pcidb.PCIDB
}

func NewPciIdsResolver(path string) (NameResolver, error) {
	var opts []*pcidb.WithOption
	if path != "" {
		opts = append(opts, pcidb.WithDirectPath(path))
	}
	db, err := pcidb.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading pci.ids: %w", err)
	}
	return &pciIdsResolver{db: db}, nil
}

func (r *pciIdsResolver) VendorName(vendorId uint16) (string, bool) {
	vendor, found := r.db.Vendors[fmt.Sprintf("%04x", vendorId)]
	if !found || vendor.Name == "" {
		return "", false
	}
	return vendor.Name, true
}

func (r *pciIdsResolver) DeviceName(vendorId, deviceId uint16) (string, bool) {
	// Products are keyed by vendor id followed by product id
	product, found := r.db.Products[fmt.Sprintf("%04x%04x", vendorId, deviceId)]
	if !found || product.Name == "" {
		return "", false
	}
	return product.Name, true
}

// builtinResolver uses the database compiled into the binary
type builtinResolver struct{}

func (builtinResolver) VendorName(vendorId uint16) (string, bool) {
	return builtindb.LookupVendor(vendorId)
}

func (builtinResolver) DeviceName(vendorId, deviceId uint16) (string, bool) {
	return builtindb.LookupProduct(vendorId, deviceId)
}

// chainResolver asks each resolver in turn and returns the first hit
type chainResolver []NameResolver

func (c chainResolver) VendorName(vendorId uint16) (string, bool) {
	for _, r := range c {
		if name, found := r.VendorName(vendorId); found {
			return name, true
		}
	}
	return "", false
}

func (c chainResolver) DeviceName(vendorId, deviceId uint16) (string, bool) {
	for _, r := range c {
		if name, found := r.DeviceName(vendorId, deviceId); found {
			return name, true
		}
	}
	return "", false
}

type noNames struct{}

func (noNames) VendorName(uint16) (string, bool) {
	return "", false
}

func (noNames) DeviceName(uint16, uint16) (string, bool) {
	return "", false
}
