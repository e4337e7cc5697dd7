// Package external holds clients for third-party HTTP collaborators.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PlacesClient calls the place-search API used for address verification and
// nearby-place lookups. The response contract is fixed by the provider.
type PlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPlacesClient creates a places client for the given API key and base URL.
func NewPlacesClient(apiKey, baseURL string) *PlacesClient {
	return &PlacesClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Coordinates is a resolved address with its accuracy grade.
type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address"`
	Accuracy    string  `json:"accuracy"`
}

// Place is one place-search result.
type Place struct {
	PlaceID     string  `json:"place_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address"`
	Phone       string  `json:"phone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DistanceM   *int    `json:"distance"`
	PlaceURL    string  `json:"place_url,omitempty"`
}

// placeDocument is the provider's wire format for one result.
type placeDocument struct {
	ID              string `json:"id"`
	PlaceName       string `json:"place_name"`
	CategoryName    string `json:"category_name"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	AddressType     string `json:"address_type"`
	Phone           string `json:"phone"`
	X               string `json:"x"`
	Y               string `json:"y"`
	Distance        string `json:"distance"`
	PlaceURL        string `json:"place_url"`
}

type searchResponse struct {
	Documents []placeDocument `json:"documents"`
}

// ResolveAddress converts an address to coordinates. It returns nil when the
// provider has no match for the address.
func (c *PlacesClient) ResolveAddress(ctx context.Context, address string) (*Coordinates, error) {
	params := url.Values{"query": {address}}
	docs, err := c.get(ctx, "/v2/local/search/address.json", params)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	doc := docs[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("external: invalid latitude in response: %w", err)
	}
	lon, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("external: invalid longitude in response: %w", err)
	}

	accuracy := "medium"
	if doc.AddressType == "ROAD_ADDR" {
		accuracy = "high"
	}

	return &Coordinates{
		Latitude:    lat,
		Longitude:   lon,
		Address:     doc.AddressName,
		RoadAddress: doc.RoadAddressName,
		Accuracy:    accuracy,
	}, nil
}

// SearchKeyword searches places by keyword, optionally biased to a point and
// radius in meters.
func (c *PlacesClient) SearchKeyword(ctx context.Context, query string, lat, lon *float64, radiusM *int) ([]Place, error) {
	params := url.Values{"query": {query}}
	if lat != nil && lon != nil {
		params.Set("y", strconv.FormatFloat(*lat, 'f', -1, 64))
		params.Set("x", strconv.FormatFloat(*lon, 'f', -1, 64))
	}
	if radiusM != nil {
		params.Set("radius", strconv.Itoa(*radiusM))
	}

	docs, err := c.get(ctx, "/v2/local/search/keyword.json", params)
	if err != nil {
		return nil, err
	}
	return toPlaces(docs), nil
}

// SearchCategory lists places of one category group around a point.
func (c *PlacesClient) SearchCategory(ctx context.Context, lat, lon float64, radiusM int, category string) ([]Place, error) {
	params := url.Values{
		"category_group_code": {category},
		"y":                   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"x":                   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"radius":              {strconv.Itoa(radiusM)},
		"size":                {"15"},
	}

	docs, err := c.get(ctx, "/v2/local/search/category.json", params)
	if err != nil {
		return nil, err
	}
	return toPlaces(docs), nil
}

func (c *PlacesClient) get(ctx context.Context, path string, params url.Values) ([]placeDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("external: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("external: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("external: unexpected status %d from place search", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("external: failed to decode response: %w", err)
	}

	return body.Documents, nil
}

func toPlaces(docs []placeDocument) []Place {
	places := make([]Place, 0, len(docs))
	for _, doc := range docs {
		lat, errY := strconv.ParseFloat(doc.Y, 64)
		lon, errX := strconv.ParseFloat(doc.X, 64)
		if errY != nil || errX != nil {
			continue
		}

		p := Place{
			PlaceID:     doc.ID,
			Name:        doc.PlaceName,
			Category:    doc.CategoryName,
			Address:     doc.AddressName,
			RoadAddress: doc.RoadAddressName,
			Phone:       doc.Phone,
			Latitude:    lat,
			Longitude:   lon,
			PlaceURL:    doc.PlaceURL,
		}
		if doc.Distance != "" {
			if d, err := strconv.Atoi(doc.Distance); err == nil {
				p.DistanceM = &d
			}
		}
		places = append(places, p)
	}
	return places
}
