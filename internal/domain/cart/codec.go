package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/velmora/storefront/internal/domain/product"
)

// encodeState serializes a state into the persisted snapshot document:
//
//	{"items":[{"id":..,"product":{..},"quantity":..,"color":..,"size":..}],
//	 "total":.., "itemCount":..}
//
// Absent variant selectors encode as null.
func encodeState(s State) []byte {
	var e jx.Encoder

	e.ObjStart()

	e.FieldStart("items")
	e.ArrStart()
	for _, item := range s.Items {
		encodeItem(&e, item)
	}
	e.ArrEnd()

	e.FieldStart("total")
	e.Raw([]byte(s.Total.String()))

	e.FieldStart("itemCount")
	e.Int(s.ItemCount)

	e.ObjEnd()

	return e.Bytes()
}

func encodeItem(e *jx.Encoder, item LineItem) {
	e.ObjStart()

	e.FieldStart("id")
	e.Str(item.Key)

	e.FieldStart("product")
	encodeProduct(e, item.Product)

	e.FieldStart("quantity")
	e.Int(item.Quantity)

	e.FieldStart("color")
	encodeNullableStr(e, item.Color)

	e.FieldStart("size")
	encodeNullableStr(e, item.Size)

	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()

	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("mrp")
	e.Raw([]byte(p.MRP.String()))
	e.FieldStart("specialPrice")
	e.Raw([]byte(p.SpecialPrice.String()))
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("inStock")
	e.Bool(p.InStock)

	e.FieldStart("colors")
	e.ArrStart()
	for _, c := range p.Colors {
		e.Str(c)
	}
	e.ArrEnd()

	e.FieldStart("sizes")
	e.ArrStart()
	for _, s := range p.Sizes {
		e.Str(s)
	}
	e.ArrEnd()

	e.FieldStart("image")
	e.ObjStart()
	e.FieldStart("thumbnail")
	e.Str(p.Image.Thumbnail)
	e.FieldStart("mobile")
	e.Str(p.Image.Mobile)
	e.FieldStart("tablet")
	e.Str(p.Image.Tablet)
	e.FieldStart("desktop")
	e.Str(p.Image.Desktop)
	e.ObjEnd()

	e.ObjEnd()
}

func encodeNullableStr(e *jx.Encoder, s string) {
	if s == "" {
		e.Null()
		return
	}
	e.Str(s)
}

// decodeState parses a persisted snapshot. Derived fields in the document are
// read but the caller is expected to rederive them; structural validation
// happens separately.
func decodeState(data []byte) (State, error) {
	d := jx.DecodeBytes(data)

	s := Empty()
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				s.Items = append(s.Items, item)
				return nil
			})
		case "total":
			total, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "total")
			}
			s.Total = total
			return nil
		case "itemCount":
			count, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "itemCount")
			}
			s.ItemCount = count
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return State{}, errors.Wrap(err, "decode snapshot")
	}

	return s, nil
}

func decodeItem(d *jx.Decoder) (LineItem, error) {
	var item LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			item.Key = v
			return nil
		case "product":
			p, err := decodeProduct(d)
			if err != nil {
				return errors.Wrap(err, "product")
			}
			item.Product = p
			return nil
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			item.Quantity = v
			return nil
		case "color":
			v, err := decodeNullableStr(d)
			if err != nil {
				return errors.Wrap(err, "color")
			}
			item.Color = v
			return nil
		case "size":
			v, err := decodeNullableStr(d)
			if err != nil {
				return errors.Wrap(err, "size")
			}
			item.Size = v
			return nil
		default:
			return d.Skip()
		}
	})
	return item, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "mrp":
			v, err := decodeDecimal(d)
			p.MRP = v
			return err
		case "specialPrice":
			v, err := decodeDecimal(d)
			p.SpecialPrice = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "inStock":
			v, err := d.Bool()
			p.InStock = v
			return err
		case "colors":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Colors = append(p.Colors, v)
				return nil
			})
		case "sizes":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Sizes = append(p.Sizes, v)
				return nil
			})
		case "image":
			return d.Obj(func(d *jx.Decoder, key string) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				switch key {
				case "thumbnail":
					p.Image.Thumbnail = v
				case "mobile":
					p.Image.Mobile = v
				case "tablet":
					p.Image.Tablet = v
				case "desktop":
					p.Image.Desktop = v
				}
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return p, err
}

func decodeNullableStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(strings.Trim(string(n), `"`))
}
