// Package receipt renders the printable text form of an order. The order
// record stays authoritative, a rendering can be regenerated at any time.
package receipt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"kioskpos/internal/domain"
)

//go:embed receipt.tmpl
var receiptTemplate string

type Engine struct {
	tmpl *template.Template
}

func NewEngine() (Engine, error) {
	var e Engine

	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return e, fmt.Errorf("template.Parse: %w", err)
	}

	return Engine{tmpl: tmpl}, nil
}

type lineData struct {
	Quantity  int32
	Name      string
	UnitPrice string
	LineTotal string
}

type receiptData struct {
	Reprint     bool
	OrderNumber string
	Date        string
	Customer    string
	Items       []lineData
	Total       string
	Status      string
}

// Render produces the receipt text for an order. Reprints carry a banner so
// the till copy is distinguishable from the original.
func (e Engine) Render(order domain.Order, memberName string, reprint bool) (string, error) {
	data := receiptData{
		Reprint:     reprint,
		OrderNumber: order.Number,
		Date:        order.CreatedAt.Local().Format(time.DateTime),
		Customer:    memberName,
		Total:       order.Total.String(),
		Status:      strings.ToUpper(string(order.Status)),
	}

	for _, item := range order.Items {
		data.Items = append(data.Items, lineData{
			Quantity:  item.Quantity,
			Name:      item.ProductName,
			UnitPrice: item.UnitPrice.String(),
			LineTotal: item.LineTotal().String(),
		})
	}

	var output strings.Builder
	if err := e.tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("tmpl.Execute: %w", err)
	}

	return strings.TrimSpace(output.String()), nil
}
