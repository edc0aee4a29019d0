package simpledb

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/edirooss/sdbsession/internal/status"
)

// DomainMetadata describes a domain's size and age as reported by the
// service.
type DomainMetadata struct {
	ItemCount                int64  `xml:"ItemCount"`
	ItemNamesSizeBytes       int64  `xml:"ItemNamesSizeBytes"`
	AttributeNameCount       int64  `xml:"AttributeNameCount"`
	AttributeNamesSizeBytes  int64  `xml:"AttributeNamesSizeBytes"`
	AttributeValueCount      int64  `xml:"AttributeValueCount"`
	AttributeValuesSizeBytes int64  `xml:"AttributeValuesSizeBytes"`
	Timestamp                string `xml:"Timestamp"`
}

// CreateDomain creates a domain. The operation may take several seconds
// on the service side and is idempotent for an existing name.
func (c *Client) CreateDomain(ctx context.Context, name string) error {
	params := url.Values{}
	params.Set("Action", "CreateDomain")
	params.Set("DomainName", name)

	status.DomainActions.Add(1)
	_, err := c.do(ctx, params)
	return err
}

// DeleteDomain deletes a domain and everything in it.
func (c *Client) DeleteDomain(ctx context.Context, name string) error {
	params := url.Values{}
	params.Set("Action", "DeleteDomain")
	params.Set("DomainName", name)

	status.DomainActions.Add(1)
	_, err := c.do(ctx, params)
	return err
}

// ListDomains returns every domain of the account, following NextToken
// pagination (the service returns at most 100 names per page).
func (c *Client) ListDomains(ctx context.Context) ([]string, error) {
	var domains []string
	nextToken := ""
	for {
		params := url.Values{}
		params.Set("Action", "ListDomains")
		params.Set("MaxNumberOfDomains", "100")
		if nextToken != "" {
			params.Set("NextToken", nextToken)
		}

		status.DomainActions.Add(1)
		body, err := c.do(ctx, params)
		if err != nil {
			return nil, err
		}

		var doc struct {
			DomainNames []string `xml:"ListDomainsResult>DomainName"`
			NextToken   string   `xml:"ListDomainsResult>NextToken"`
		}
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("simpledb: parse ListDomains response: %w", err)
		}

		domains = append(domains, doc.DomainNames...)
		if doc.NextToken == "" {
			return domains, nil
		}
		nextToken = doc.NextToken
	}
}

// HasDomain reports whether the account owns the named domain.
func (c *Client) HasDomain(ctx context.Context, name string) (bool, error) {
	domains, err := c.ListDomains(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range domains {
		if d == name {
			return true, nil
		}
	}
	return false, nil
}

// GetDomainMetadata returns the domain's metadata.
func (c *Client) GetDomainMetadata(ctx context.Context, name string) (DomainMetadata, error) {
	params := url.Values{}
	params.Set("Action", "DomainMetadata")
	params.Set("DomainName", name)

	status.DomainActions.Add(1)
	body, err := c.do(ctx, params)
	if err != nil {
		return DomainMetadata{}, err
	}

	var doc struct {
		Metadata DomainMetadata `xml:"DomainMetadataResult"`
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return DomainMetadata{}, fmt.Errorf("simpledb: parse DomainMetadata response: %w", err)
	}
	return doc.Metadata, nil
}
