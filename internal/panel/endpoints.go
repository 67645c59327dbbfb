package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
)

func decodeItems[T any](list List) ([]T, error) {
	var items []T
	if err := json.Unmarshal(list.Items, &items); err != nil {
		return nil, &apperr.AppError{Code: apperr.CodeNetwork, Message: NetworkErrMessage, Retryable: true, Cause: err}
	}
	return items, nil
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, *PageMeta, error) {
	raw, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, err := DecodeList(raw)
	if err != nil {
		return nil, nil, err
	}
	items, err := decodeItems[T](list)
	if err != nil {
		return nil, nil, err
	}
	return items, list.Meta, nil
}

func (c *Client) ActiveRegistrars(ctx context.Context) ([]Registrar, error) {
	items, _, err := getList[Registrar](ctx, c, "/Registrars/active")
	return items, err
}

func (c *Client) CheckAvailability(ctx context.Context, registrarID, domain string) (Availability, error) {
	var out Availability
	path := "/Registrars/" + url.PathEscape(registrarID) + "/isavailable/" + url.PathEscape(domain)
	if err := c.getObject(ctx, path, &out); err != nil {
		return Availability{}, err
	}
	return out, nil
}

func (c *Client) SearchCustomers(ctx context.Context, query string) ([]Customer, *PageMeta, error) {
	q := url.Values{}
	q.Set("query", query)
	return getList[Customer](ctx, c, "/Customers/search?"+q.Encode())
}

func (c *Client) ActiveHostingPackages(ctx context.Context) ([]HostingPackage, error) {
	items, _, err := getList[HostingPackage](ctx, c, "/HostingPackages/active")
	return items, err
}

// BillingCycles returns cycles in display order: sort order, then
// duration for cycles sharing one.
func (c *Client) BillingCycles(ctx context.Context) ([]BillingCycle, error) {
	items, _, err := getList[BillingCycle](ctx, c, "/BillingCycles")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].DurationInDays < items[j].DurationInDays
	})
	return items, nil
}

func (c *Client) ServiceTypes(ctx context.Context) ([]ServiceType, error) {
	items, _, err := getList[ServiceType](ctx, c, "/ServiceTypes")
	return items, err
}

func (c *Client) Services(ctx context.Context) ([]Service, error) {
	items, _, err := getList[Service](ctx, c, "/Services")
	return items, err
}

func (c *Client) CustomerContacts(ctx context.Context, customerID int) ([]ContactPerson, error) {
	items, _, err := getList[ContactPerson](ctx, c, "/ContactPersons/customer/"+strconv.Itoa(customerID))
	return items, err
}

func (c *Client) TldByExtension(ctx context.Context, extension string) (Tld, error) {
	var out Tld
	if err := c.getObject(ctx, "/Tlds/extension/"+url.PathEscape(extension), &out); err != nil {
		return Tld{}, err
	}
	return out, nil
}

func (c *Client) CalculatePrice(ctx context.Context, req PriceRequest) (PriceQuote, error) {
	var out PriceQuote
	if err := c.postObject(ctx, "/tld-pricing/calculate", req, &out); err != nil {
		return PriceQuote{}, err
	}
	return out, nil
}

func (c *Client) InvoiceSummary(ctx context.Context, status string) (InvoiceTotals, error) {
	var out InvoiceTotals
	if err := c.getObject(ctx, "/Invoices/summary/"+url.PathEscape(status), &out); err != nil {
		return InvoiceTotals{}, err
	}
	return out, nil
}

