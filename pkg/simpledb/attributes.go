package simpledb

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"

	"github.com/edirooss/sdbsession/internal/status"
	"github.com/edirooss/sdbsession/pkg/item"
)

// attributeXML is the <Attribute> element shared by GetAttributes and
// Select responses.
type attributeXML struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

// PutAttributes creates or updates attributes of one item. Replace
// attributes overwrite the stored set; the rest union into it.
func (c *Client) PutAttributes(ctx context.Context, domain, itemName string, attrs item.PutAttrs) error {
	params := url.Values{}
	params.Set("Action", "PutAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", itemName)
	encodePutAttrs(params, "", attrs)

	status.PutAttributesActions.Add(1)
	_, err := c.do(ctx, params)
	return err
}

// BatchPutAttributes performs PutAttributes for several items of one
// domain in a single request.
func (c *Client) BatchPutAttributes(ctx context.Context, domain string, items map[string]item.PutAttrs) error {
	params := url.Values{}
	params.Set("Action", "BatchPutAttributes")
	params.Set("DomainName", domain)

	for i, itemName := range sortedKeys(items) {
		prefix := fmt.Sprintf("Item.%d.", i)
		params.Set(prefix+"ItemName", itemName)
		encodePutAttrs(params, prefix, items[itemName])
	}

	status.PutAttributesActions.Add(1)
	_, err := c.do(ctx, params)
	return err
}

// DeleteAttributes deletes values, whole attributes, or — when attrs is
// nil or empty — the whole item.
func (c *Client) DeleteAttributes(ctx context.Context, domain, itemName string, attrs item.DeleteAttrs) error {
	params := url.Values{}
	params.Set("Action", "DeleteAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", itemName)

	idx := 0
	for _, name := range sortedKeys(attrs) {
		values := attrs[name]
		if values.Len() == 0 {
			params.Set(fmt.Sprintf("Attribute.%d.Name", idx), name)
			idx++
			continue
		}
		for _, value := range values.Values() {
			params.Set(fmt.Sprintf("Attribute.%d.Name", idx), name)
			params.Set(fmt.Sprintf("Attribute.%d.Value", idx), value)
			idx++
		}
	}

	if len(attrs) == 0 {
		status.DeleteItemActions.Add(1)
	} else {
		status.DeleteAttributesActions.Add(1)
	}
	_, err := c.do(ctx, params)
	return err
}

// GetAttributes returns the item's attributes, optionally limited to a
// projection. Requested attributes missing from the item come back
// bound to empty sets; a missing item yields an empty result, never an
// error (the item may simply not exist on the replica that answered).
func (c *Client) GetAttributes(ctx context.Context, domain, itemName string, projection []string) (item.Item, error) {
	params := url.Values{}
	params.Set("Action", "GetAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", itemName)
	for i, name := range projection {
		params.Set(fmt.Sprintf("AttributeName.%d", i), name)
	}

	status.GetItemActions.Add(1)
	body, err := c.do(ctx, params)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Attributes []attributeXML `xml:"GetAttributesResult>Attribute"`
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("simpledb: parse GetAttributes response: %w", err)
	}

	result := make(item.Item, len(doc.Attributes))
	for _, name := range projection {
		result[name] = item.NewValueSet()
	}
	for _, attr := range doc.Attributes {
		if result[attr.Name] == nil {
			result[attr.Name] = item.NewValueSet()
		}
		result[attr.Name].Add(attr.Value)
	}
	return result, nil
}

// encodePutAttrs renders a put payload as Attribute.N.{Name,Value,Replace}
// parameters under prefix, one index per value. Attribute order is
// sorted for deterministic requests.
func encodePutAttrs(params url.Values, prefix string, attrs item.PutAttrs) {
	idx := 0
	for _, name := range sortedKeys(attrs) {
		attr := attrs[name]
		for _, value := range attr.Values.Values() {
			params.Set(fmt.Sprintf("%sAttribute.%d.Name", prefix, idx), name)
			params.Set(fmt.Sprintf("%sAttribute.%d.Value", prefix, idx), value)
			if attr.Replace {
				params.Set(fmt.Sprintf("%sAttribute.%d.Replace", prefix, idx), "true")
			}
			idx++
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
