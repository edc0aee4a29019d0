package simpledb

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edirooss/sdbsession/internal/status"
	"github.com/edirooss/sdbsession/pkg/item"
)

// Row is one item of a select result.
type Row struct {
	Name  string
	Attrs item.Item
}

// QuoteAttr backtick-quotes an attribute name for use in a select
// expression, doubling internal backticks.
func QuoteAttr(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteAttrs renders an explicit attribute projection for a select
// expression.
func QuoteAttrs(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = QuoteAttr(name)
	}
	return strings.Join(quoted, ",")
}

// buildSelectQuery assembles the select expression. projection is used
// verbatim: "*", "itemName()", "count(*)", or a QuoteAttrs list.
func buildSelectQuery(projection, domain, where, orderBy string, limit int) string {
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(projection)
	b.WriteString(" from ")
	b.WriteString(QuoteAttr(domain))
	if where != "" {
		b.WriteString(" where ")
		b.WriteString(where)
		// The service requires the sort attribute to appear in a
		// predicate, so order by is only legal alongside a where.
		if orderBy != "" {
			b.WriteString(" order by ")
			b.WriteString(orderBy)
		}
	}
	if limit > 0 {
		b.WriteString(" limit ")
		b.WriteString(strconv.Itoa(limit))
	}
	return b.String()
}

// Select runs a query and gathers all pages. The service caps each page
// and hands back a NextToken while more rows remain; pages are fetched
// until the token disappears.
func (c *Client) Select(ctx context.Context, projection, domain, where, orderBy string, limit int) ([]Row, error) {
	query := buildSelectQuery(projection, domain, where, orderBy, limit)

	var rows []Row
	nextToken := ""
	for {
		params := url.Values{}
		params.Set("Action", "Select")
		params.Set("SelectExpression", query)
		if nextToken != "" {
			params.Set("NextToken", nextToken)
		}

		status.SelectActions.Add(1)
		body, err := c.do(ctx, params)
		if err != nil {
			return nil, err
		}

		var doc struct {
			Items []struct {
				Name       string         `xml:"Name"`
				Attributes []attributeXML `xml:"Attribute"`
			} `xml:"SelectResult>Item"`
			NextToken string `xml:"SelectResult>NextToken"`
		}
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("simpledb: parse Select response: %w", err)
		}

		for _, row := range doc.Items {
			attrs := make(item.Item, len(row.Attributes))
			for _, attr := range row.Attributes {
				if attrs[attr.Name] == nil {
					attrs[attr.Name] = item.NewValueSet()
				}
				attrs[attr.Name].Add(attr.Value)
			}
			rows = append(rows, Row{Name: row.Name, Attrs: attrs})
		}

		if doc.NextToken == "" {
			return rows, nil
		}
		nextToken = doc.NextToken
	}
}
