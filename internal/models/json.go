package models

import (
	"encoding/json"
)

// marshalFlat encodes known and then merges extra into the same object.
// Named fields win on key collisions.
func marshalFlat(known any, extra Attributes) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, taken := fields[k]; taken {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// unmarshalFlat decodes data into known and collects the remaining keys.
func unmarshalFlat(data []byte, known any, knownKeys ...string) (Attributes, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Attributes(all), nil
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return marshalFlat(plain(u), u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	extra, err := unmarshalFlat(data, &p, "_id", "email")
	if err != nil {
		return err
	}
	*u = User(p)
	u.Extra = extra
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	type plain Category
	return marshalFlat(plain(c), c.Extra)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	var p plain
	extra, err := unmarshalFlat(data, &p, "_id", "category")
	if err != nil {
		return err
	}
	*c = Category(p)
	c.Extra = extra
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return marshalFlat(plain(p), p.Extra)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var v plain
	extra, err := unmarshalFlat(data, &v, "_id", "category")
	if err != nil {
		return err
	}
	*p = Product(v)
	p.Extra = extra
	return nil
}

func (c CartItem) MarshalJSON() ([]byte, error) {
	type plain CartItem
	return marshalFlat(plain(c), c.Extra)
}

func (c *CartItem) UnmarshalJSON(data []byte) error {
	type plain CartItem
	var p plain
	extra, err := unmarshalFlat(data, &p, "_id", "product_id", "email")
	if err != nil {
		return err
	}
	*c = CartItem(p)
	c.Extra = extra
	return nil
}

func (f Favorite) MarshalJSON() ([]byte, error) {
	type plain Favorite
	return marshalFlat(plain(f), f.Extra)
}

func (f *Favorite) UnmarshalJSON(data []byte) error {
	type plain Favorite
	var p plain
	extra, err := unmarshalFlat(data, &p, "_id", "product_id", "email")
	if err != nil {
		return err
	}
	*f = Favorite(p)
	f.Extra = extra
	return nil
}
