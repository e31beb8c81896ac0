package model

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
)

// CommandName identifies a command understood by the print host.
type CommandName string

const (
	CommandPrintLabel            CommandName = "print_label"
	CommandPrintTwoProductLabel  CommandName = "print_two_product_label"
	CommandPrintFourProductLabel CommandName = "print_four_product_label"
	CommandPrintSampleLabel      CommandName = "print_sample_label"
	CommandListPrinters          CommandName = "list_printers"
	CommandGreet                 CommandName = "greet"
)

// ProtocolVersion selects which print request shape the form side sends.
// The shapes are incompatible and never converted into one another on the
// wire.
type ProtocolVersion string

const (
	ProtocolTwoSlot  ProtocolVersion = "two-slot"
	ProtocolFourSlot ProtocolVersion = "four-slot"
	ProtocolProducts ProtocolVersion = "products"
)

// SlotCount reports the fixed number of product slots of the version, or 0
// when the version carries a variable-length sequence.
func (v ProtocolVersion) SlotCount() int {
	switch v {
	case ProtocolTwoSlot:
		return 2
	case ProtocolFourSlot:
		return 4
	default:
		return 0
	}
}

// CommandName is the print command the version submits, or "" for an
// unknown version.
func (v ProtocolVersion) CommandName() CommandName {
	switch v {
	case ProtocolTwoSlot:
		return CommandPrintTwoProductLabel
	case ProtocolFourSlot:
		return CommandPrintFourProductLabel
	case ProtocolProducts:
		return CommandPrintLabel
	}
	return ""
}

func (v ProtocolVersion) Valid() bool {
	switch v {
	case ProtocolTwoSlot, ProtocolFourSlot, ProtocolProducts:
		return true
	}
	return false
}

func ParseProtocolVersion(s string) (ProtocolVersion, error) {
	v := ProtocolVersion(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown protocol version %q", s)
	}
	return v, nil
}

type ProductEntry struct {
	Name    string `json:"name"`
	Price   string `json:"price"`
	Barcode string `json:"barcode"`
}

// Label is the host-side view of any print request variant.
type Label struct {
	Printer  string
	Title    string
	Products []ProductEntry
}

// --- Command variants ---

type Command interface {
	CommandName() CommandName
}

// PrintCommand is a Command that ends in a label on a printer.
type PrintCommand interface {
	Command
	Label() Label
}

type GreetRequest struct {
	Name string `json:"name"`
}

type ListPrintersRequest struct{}

type PrintSampleLabelRequest struct{}

type PrintLabelRequest struct {
	Printer  string         `json:"printer"`
	Title    string         `json:"title,omitempty"`
	Products []ProductEntry `json:"products"`
}

// UnmarshalJSON accepts brand_name as an alias of title.
func (r *PrintLabelRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Printer   string         `json:"printer"`
		Title     string         `json:"title"`
		BrandName string         `json:"brand_name"`
		Products  []ProductEntry `json:"products"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Printer = raw.Printer
	r.Title = raw.Title
	if r.Title == "" {
		r.Title = raw.BrandName
	}
	r.Products = raw.Products
	return nil
}

type PrintTwoProductLabelRequest struct {
	Printer   string `json:"printer"`
	P1Name    string `json:"p1_name"`
	P1Price   string `json:"p1_price"`
	P1Barcode string `json:"p1_barcode"`
	P2Name    string `json:"p2_name"`
	P2Price   string `json:"p2_price"`
	P2Barcode string `json:"p2_barcode"`
}

type PrintFourProductLabelRequest struct {
	Printer   string `json:"printer"`
	P1Name    string `json:"p1_name"`
	P1Price   string `json:"p1_price"`
	P1Barcode string `json:"p1_barcode"`
	P2Name    string `json:"p2_name"`
	P2Price   string `json:"p2_price"`
	P2Barcode string `json:"p2_barcode"`
	P3Name    string `json:"p3_name"`
	P3Price   string `json:"p3_price"`
	P3Barcode string `json:"p3_barcode"`
	P4Name    string `json:"p4_name"`
	P4Price   string `json:"p4_price"`
	P4Barcode string `json:"p4_barcode"`
}

func (GreetRequest) CommandName() CommandName                 { return CommandGreet }
func (ListPrintersRequest) CommandName() CommandName          { return CommandListPrinters }
func (PrintSampleLabelRequest) CommandName() CommandName      { return CommandPrintSampleLabel }
func (PrintLabelRequest) CommandName() CommandName            { return CommandPrintLabel }
func (PrintTwoProductLabelRequest) CommandName() CommandName  { return CommandPrintTwoProductLabel }
func (PrintFourProductLabelRequest) CommandName() CommandName { return CommandPrintFourProductLabel }

func (r PrintLabelRequest) Label() Label {
	products := make([]ProductEntry, len(r.Products))
	copy(products, r.Products)
	return Label{Printer: r.Printer, Title: r.Title, Products: products}
}

func (r PrintTwoProductLabelRequest) Label() Label {
	return Label{
		Printer: r.Printer,
		Products: []ProductEntry{
			{Name: r.P1Name, Price: r.P1Price, Barcode: r.P1Barcode},
			{Name: r.P2Name, Price: r.P2Price, Barcode: r.P2Barcode},
		},
	}
}

func (r PrintFourProductLabelRequest) Label() Label {
	return Label{
		Printer: r.Printer,
		Products: []ProductEntry{
			{Name: r.P1Name, Price: r.P1Price, Barcode: r.P1Barcode},
			{Name: r.P2Name, Price: r.P2Price, Barcode: r.P2Barcode},
			{Name: r.P3Name, Price: r.P3Price, Barcode: r.P3Barcode},
			{Name: r.P4Name, Price: r.P4Price, Barcode: r.P4Barcode},
		},
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
