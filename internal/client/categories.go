// ABOUTME: Business and product category management
// ABOUTME: Main (general) categories own sub (descriptive) categories

package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CategoryKind selects the business or product category tree
type CategoryKind string

const (
	KindBusiness CategoryKind = "business"
	KindProduct  CategoryKind = "product"
)

// CategoryLevel selects main or sub categories
type CategoryLevel string

const (
	LevelMain CategoryLevel = "main"
	LevelSub  CategoryLevel = "sub"
)

// ParseCategoryKind accepts business or product
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch CategoryKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindBusiness:
		return KindBusiness, nil
	case KindProduct:
		return KindProduct, nil
	default:
		return "", fmt.Errorf("unknown category kind %q (want business or product)", s)
	}
}

// ParseCategoryLevel accepts main or sub
func ParseCategoryLevel(s string) (CategoryLevel, error) {
	switch CategoryLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelMain:
		return LevelMain, nil
	case LevelSub:
		return LevelSub, nil
	default:
		return "", fmt.Errorf("unknown category level %q (want main or sub)", s)
	}
}

type categoryEndpoints struct {
	list, subs, searchMain, searchSub, addMain, addSub string
}

var endpoints = map[CategoryKind]categoryEndpoints{
	KindBusiness: {
		list:       "badmin/get_gcats/",
		subs:       "badmin/get_dcats/",
		searchMain: "users/search_gencats/",
		searchSub:  "users/suggestions_bdcats/",
		addMain:    "badmin/add_general_cats/",
		addSub:     "badmin/add_descriptive_cats/",
	},
	KindProduct: {
		list:       "badmin/get_p_gcats/",
		subs:       "badmin/get_p_subcats/",
		searchMain: "users/search_p_gcats/",
		searchSub:  "users/search_p_sub_cats/",
		addMain:    "badmin/add_p_gcats/",
		addSub:     "badmin/add_p_subcats/",
	},
}

func endpointsFor(kind CategoryKind) (categoryEndpoints, error) {
	ep, ok := endpoints[kind]
	if !ok {
		return categoryEndpoints{}, fmt.Errorf("unknown category kind %q", kind)
	}
	return ep, nil
}

// Category is a main or sub category. Main categories carry a sub count;
// sub categories carry their parent id and mapping flag.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"cat_name"`
	SubCount int    `json:"dcats_count,omitempty"`
	ParentID int    `json:"general_cat,omitempty"`
	Mapped   bool   `json:"maped,omitempty"`
}

// CategoryList is a page of categories with tree totals
type CategoryList struct {
	Page[Category]
	TotalMain int `json:"total_gcat_count"`
	TotalSub  int `json:"total_dcat_count"`
}

// ListCategories fetches the first page of main categories
func (c *Client) ListCategories(ctx context.Context, kind CategoryKind) (*CategoryList, error) {
	ep, err := endpointsFor(kind)
	if err != nil {
		return nil, err
	}
	var list CategoryList
	if err := c.Get(ctx, ep.list, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list %s categories: %w", kind, err)
	}
	return &list, nil
}

// ListSubCategories fetches the first page of sub categories under parentID
func (c *Client) ListSubCategories(ctx context.Context, kind CategoryKind, parentID int) (*CategoryList, error) {
	ep, err := endpointsFor(kind)
	if err != nil {
		return nil, err
	}
	if parentID <= 0 {
		return nil, errors.New("parent category id is required")
	}
	var list CategoryList
	q := url.Values{"gid": {strconv.Itoa(parentID)}}
	if err := c.Get(ctx, ep.subs, q, &list); err != nil {
		return nil, fmt.Errorf("failed to list %s sub categories of %d: %w", kind, parentID, err)
	}
	return &list, nil
}

// SearchCategories searches one level of a category tree by name.
// An empty query at the main level is the unfiltered listing.
func (c *Client) SearchCategories(ctx context.Context, kind CategoryKind, level CategoryLevel, q string) (*CategoryList, error) {
	ep, err := endpointsFor(kind)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		if level == LevelMain {
			return c.ListCategories(ctx, kind)
		}
		return nil, errors.New("search query is required")
	}

	path := ep.searchMain
	if level == LevelSub {
		path = ep.searchSub
	}
	var list CategoryList
	query := url.Values{"q": {q}, "for_admin": {"true"}}
	if err := c.Get(ctx, path, query, &list); err != nil {
		return nil, fmt.Errorf("failed to search %s categories: %w", kind, err)
	}
	return &list, nil
}

// SplitNames splits a comma separated list of category names, dropping blanks
func SplitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func cleanNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("at least one category name is required")
	}
	return out, nil
}

type addCategoriesRequest struct {
	Names []string `json:"gcats"`
}

type addSubCategoriesRequest struct {
	ParentID int      `json:"gid"`
	Names    []string `json:"dcats"`
}

// AddCategories creates main categories
func (c *Client) AddCategories(ctx context.Context, kind CategoryKind, names []string) error {
	ep, err := endpointsFor(kind)
	if err != nil {
		return err
	}
	names, err = cleanNames(names)
	if err != nil {
		return err
	}
	if err := c.Post(ctx, ep.addMain, addCategoriesRequest{Names: names}, nil); err != nil {
		return fmt.Errorf("failed to add %s categories: %w", kind, err)
	}
	return nil
}

// AddSubCategories creates sub categories under parentID
func (c *Client) AddSubCategories(ctx context.Context, kind CategoryKind, parentID int, names []string) error {
	ep, err := endpointsFor(kind)
	if err != nil {
		return err
	}
	if parentID <= 0 {
		return errors.New("parent category id is required")
	}
	names, err = cleanNames(names)
	if err != nil {
		return err
	}
	body := addSubCategoriesRequest{ParentID: parentID, Names: names}
	if err := c.Post(ctx, ep.addSub, body, nil); err != nil {
		return fmt.Errorf("failed to add %s sub categories: %w", kind, err)
	}
	return nil
}

type renameRequest struct {
	Name string `json:"cat_name"`
}

// RenameCategory renames a main or sub category. Both trees share the
// rename endpoints.
func (c *Client) RenameCategory(ctx context.Context, level CategoryLevel, id int, name string) error {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return errors.New("category id and new name are required")
	}
	path := fmt.Sprintf("badmin/edit_gcats/%d/", id)
	if level == LevelSub {
		path = fmt.Sprintf("badmin/edit_dcats/%d/", id)
	}
	if err := c.Patch(ctx, path, renameRequest{Name: name}, nil); err != nil {
		return fmt.Errorf("failed to rename category %d: %w", id, err)
	}
	return nil
}
