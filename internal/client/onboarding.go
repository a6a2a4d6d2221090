// ABOUTME: Business onboarding after registration: categories, services and products
// ABOUTME: Listings are sent as multipart forms with up to five images of at most 1 MB each

package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// ListingImagesField is the multipart field holding listing images
	ListingImagesField = "images[]"
	maxListingImages   = 5
)

type businessCategoryRequest struct {
	CategoryID int `json:"cid"`
	BusinessID int `json:"bid"`
}

type businessSubCategoriesRequest struct {
	BusinessID     int   `json:"bid"`
	SubCategoryIDs []int `json:"dcid"`
}

type serviceCategoryRequest struct {
	Name       string `json:"cat_name"`
	BusinessID int    `json:"buisness"`
}

// ProductCategory is a product sub category offered when listing a product
type ProductCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PopularCategories lists the business main categories offered first when
// a new business picks its category.
func (c *Client) PopularCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.Get(ctx, "users/popular_gencats/", nil, &cats); err != nil {
		return nil, fmt.Errorf("failed to list popular categories: %w", err)
	}
	return cats, nil
}

// SetBusinessCategory files business bid under main category cid
func (c *Client) SetBusinessCategory(ctx context.Context, businessID, categoryID int) error {
	if businessID <= 0 || categoryID <= 0 {
		return errors.New("business id and category id are required")
	}
	err := c.Post(ctx, "users/add_bgencats/", businessCategoryRequest{
		CategoryID: categoryID,
		BusinessID: businessID,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to set category of business %d: %w", businessID, err)
	}
	return nil
}

// CategoryChoices lists the sub categories a business can pick under main
// category gcid.
func (c *Client) CategoryChoices(ctx context.Context, categoryID int) ([]Category, error) {
	if categoryID <= 0 {
		return nil, errors.New("category id is required")
	}
	var cats []Category
	q := url.Values{"gcid": {strconv.Itoa(categoryID)}}
	if err := c.Get(ctx, "users/get_descats/", q, &cats); err != nil {
		return nil, fmt.Errorf("failed to list sub categories of %d: %w", categoryID, err)
	}
	return cats, nil
}

// SetBusinessSubCategories files business bid under the given sub categories
func (c *Client) SetBusinessSubCategories(ctx context.Context, businessID int, subIDs []int) error {
	if businessID <= 0 {
		return errors.New("business id is required")
	}
	if len(subIDs) == 0 {
		return errors.New("select at least one sub category")
	}
	err := c.Post(ctx, "users/add_descats/", businessSubCategoriesRequest{
		BusinessID:     businessID,
		SubCategoryIDs: subIDs,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to set sub categories of business %d: %w", businessID, err)
	}
	return nil
}

// AddServiceCategory creates a named group for a business's services and
// returns its id.
func (c *Client) AddServiceCategory(ctx context.Context, businessID int, name string) (int, error) {
	name = strings.TrimSpace(name)
	if businessID <= 0 {
		return 0, errors.New("business id is required")
	}
	if name == "" {
		return 0, errors.New("service category name is required")
	}
	var resp createdResponse
	err := c.Post(ctx, "users/servicecats/", serviceCategoryRequest{Name: name, BusinessID: businessID}, &resp)
	if err != nil {
		return 0, fmt.Errorf("failed to add service category %q: %w", name, err)
	}
	return resp.ID, nil
}

// Listing is the form shared by services and products
type Listing struct {
	BusinessID  int
	Name        string
	Price       string
	Description string
	Images      []string
}

// Validate checks the fields shared by services and products
func (l Listing) Validate() error {
	return errors.Join(l.validate()...)
}

func (l Listing) validate() []error {
	var errs []error
	if l.BusinessID <= 0 {
		errs = append(errs, errors.New("business id is required"))
	}
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if price, err := strconv.ParseFloat(strings.TrimSpace(l.Price), 64); err != nil || price < 0 {
		errs = append(errs, fmt.Errorf("price %q is not a valid amount", l.Price))
	}
	if strings.TrimSpace(l.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	switch {
	case len(l.Images) == 0:
		errs = append(errs, errors.New("at least one image is required"))
	case len(l.Images) > maxListingImages:
		errs = append(errs, fmt.Errorf("at most %d images are allowed", maxListingImages))
	}
	for _, path := range l.Images {
		if err := checkImage(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (l Listing) form(fields map[string]string) *MultipartForm {
	form := &MultipartForm{Fields: map[string]string{
		"name":        strings.TrimSpace(l.Name),
		"price":       strings.TrimSpace(l.Price),
		"description": strings.TrimSpace(l.Description),
		"buisness":    strconv.Itoa(l.BusinessID),
	}}
	for k, v := range fields {
		form.Fields[k] = v
	}
	for _, path := range l.Images {
		form.Files = append(form.Files, FormFile{Field: ListingImagesField, Path: path})
	}
	return form
}

// NewService is a service listed under one of the business's service categories
type NewService struct {
	Listing
	CategoryID int
}

// Validate checks the service form, reporting every problem at once
func (s NewService) Validate() error {
	errs := s.validate()
	if s.CategoryID <= 0 {
		errs = append(errs, errors.New("service category id is required"))
	}
	return errors.Join(errs...)
}

// AddService lists a service for a business
func (c *Client) AddService(ctx context.Context, s NewService) error {
	if err := s.Validate(); err != nil {
		return err
	}
	form := s.form(map[string]string{"cat": strconv.Itoa(s.CategoryID)})
	if err := c.PostMultipart(ctx, "users/services/", form, nil); err != nil {
		return fmt.Errorf("failed to add service %q: %w", s.Name, err)
	}
	return nil
}

// NewProduct is a product listed under a product sub category
type NewProduct struct {
	Listing
	SubCategoryID int
}

// Validate checks the product form, reporting every problem at once
func (p NewProduct) Validate() error {
	errs := p.validate()
	if p.SubCategoryID <= 0 {
		errs = append(errs, errors.New("product category id is required"))
	}
	return errors.Join(errs...)
}

// AddProduct lists a product for a business
func (c *Client) AddProduct(ctx context.Context, p NewProduct) error {
	if err := p.Validate(); err != nil {
		return err
	}
	form := p.form(map[string]string{"sub_cat": strconv.Itoa(p.SubCategoryID)})
	if err := c.PostMultipart(ctx, "users/addproduct/", form, nil); err != nil {
		return fmt.Errorf("failed to add product %q: %w", p.Name, err)
	}
	return nil
}

// SearchProductCategories finds product sub categories by name
func (c *Client) SearchProductCategories(ctx context.Context, q string) ([]ProductCategory, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errors.New("search query is required")
	}
	var cats []ProductCategory
	if err := c.Get(ctx, "users/searchpcats/", url.Values{"q": {q}}, &cats); err != nil {
		return nil, fmt.Errorf("failed to search product categories: %w", err)
	}
	return cats, nil
}
