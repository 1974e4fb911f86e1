package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

// LineItem is one priced line of a draft. Product fields are snapshots
// taken when the line was added.
type LineItem struct {
	ProductID        uuid.UUID
	ProductCode      string
	ProductName      string
	Image            *string
	Unit             enums.Unit
	PackageMode      bool
	EnteredQuantity  decimal.Decimal
	Quantity         decimal.Decimal
	DisplayText      string
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
	Note             string
}

// Draft is an in-progress quote. Values are treated as immutable:
// Apply returns a new Draft and never mutates its input.
type Draft struct {
	Items         []LineItem
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	VATRate       decimal.Decimal
	VATIncluded   bool
	Currency      enums.Currency
}

// Entry is the scratch input for the next line item. Reset clears it
// after a successful add so the form is ready for the next entry.
type Entry struct {
	Quantity      decimal.Decimal
	UsePackage    bool
	PriceOverride *decimal.Decimal
	Note          string
}

// Reset returns Entry to its zero state.
func (e *Entry) Reset() {
	*e = Entry{}
}

// Action is a tagged draft mutation applied through Apply.
type Action interface {
	isAction()
}

// AddItem appends a new line built from the product and entry.
type AddItem struct {
	Product models.Product
	Entry   Entry
}

// UpdateItemQuantity replaces the quantity of the line at Index.
type UpdateItemQuantity struct {
	Index    int
	Quantity decimal.Decimal
}

// UpdateItemPrice replaces the unit price of the line at Index.
type UpdateItemPrice struct {
	Index     int
	UnitPrice decimal.Decimal
}

// RemoveItem deletes the line at Index.
type RemoveItem struct {
	Index int
}

// SetDiscount replaces the draft-level discount settings.
type SetDiscount struct {
	Type  enums.DiscountType
	Value decimal.Decimal
}

// SetVAT replaces the draft-level VAT settings.
type SetVAT struct {
	Included bool
	Rate     decimal.Decimal
}

func (AddItem) isAction()            {}
func (UpdateItemQuantity) isAction() {}
func (UpdateItemPrice) isAction()    {}
func (RemoveItem) isAction()         {}
func (SetDiscount) isAction()        {}
func (SetVAT) isAction()             {}

// BuildLineItem constructs a line from a catalog product and the scratch
// entry. The unit price defaults to the catalog price unless overridden.
func BuildLineItem(product models.Product, entry Entry) (LineItem, error) {
	if product.ID == uuid.Nil {
		return LineItem{}, errors.New(errors.CodeValidation, "no product selected")
	}

	res, err := ResolveQuantity(product, entry.Quantity, entry.UsePackage)
	if err != nil {
		return LineItem{}, err
	}

	price := product.UnitPrice
	if entry.PriceOverride != nil {
		price = *entry.PriceOverride
	}
	if price.IsNegative() {
		return LineItem{}, errors.New(errors.CodeValidation, "unit price cannot be negative")
	}

	return LineItem{
		ProductID:       product.ID,
		ProductCode:     product.Code,
		ProductName:     product.Name,
		Image:           product.Image,
		Unit:            product.Unit,
		PackageMode:     res.PackageMode,
		EnteredQuantity: entry.Quantity,
		Quantity:        res.Quantity,
		DisplayText:     res.DisplayText,
		UnitPrice:       price,
		Subtotal:        res.Quantity.Mul(price),
		Note:            entry.Note,
	}, nil
}

// Apply runs one action against the draft and returns the updated copy.
// A failed action returns the original draft unchanged.
func Apply(d Draft, action Action) (Draft, error) {
	switch a := action.(type) {
	case AddItem:
		item, err := BuildLineItem(a.Product, a.Entry)
		if err != nil {
			return d, err
		}
		next := d
		next.Items = append(copyItems(d.Items), item)
		return next, nil

	case UpdateItemQuantity:
		if err := checkIndex(d, a.Index); err != nil {
			return d, err
		}
		if !a.Quantity.IsPositive() {
			return d, errors.New(errors.CodeValidation, "quantity must be greater than zero")
		}
		next := d
		next.Items = copyItems(d.Items)
		item := &next.Items[a.Index]
		item.Quantity = a.Quantity
		item.EnteredQuantity = a.Quantity
		item.PackageMode = false
		item.DisplayText = displayNumber(a.Quantity) + " " + string(item.Unit)
		item.Subtotal = item.Quantity.Mul(item.UnitPrice)
		return next, nil

	case UpdateItemPrice:
		if err := checkIndex(d, a.Index); err != nil {
			return d, err
		}
		if a.UnitPrice.IsNegative() {
			return d, errors.New(errors.CodeValidation, "unit price cannot be negative")
		}
		next := d
		next.Items = copyItems(d.Items)
		item := &next.Items[a.Index]
		item.UnitPrice = a.UnitPrice
		item.Subtotal = item.Quantity.Mul(item.UnitPrice)
		return next, nil

	case RemoveItem:
		if err := checkIndex(d, a.Index); err != nil {
			return d, err
		}
		next := d
		items := copyItems(d.Items)
		next.Items = append(items[:a.Index], items[a.Index+1:]...)
		return next, nil

	case SetDiscount:
		if a.Value.IsNegative() {
			return d, errors.New(errors.CodeValidation, "discount value cannot be negative")
		}
		if a.Type != "" && !a.Type.IsValid() {
			return d, errors.New(errors.CodeValidation, "unknown discount type").
				WithDetails(map[string]any{"discount_type": string(a.Type)})
		}
		next := d
		next.DiscountType = a.Type
		next.DiscountValue = a.Value
		return next, nil

	case SetVAT:
		if a.Rate.IsNegative() {
			return d, errors.New(errors.CodeValidation, "vat rate cannot be negative")
		}
		next := d
		next.VATIncluded = a.Included
		next.VATRate = a.Rate
		return next, nil

	default:
		return d, errors.New(errors.CodeInternal, "unknown draft action")
	}
}

func checkIndex(d Draft, index int) error {
	if index < 0 || index >= len(d.Items) {
		return errors.New(errors.CodeValidation, "item index out of range").
			WithDetails(map[string]any{"index": index, "items": len(d.Items)})
	}
	return nil
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
