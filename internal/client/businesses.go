// ABOUTME: Business registration, editing, image upload and plan payment
// ABOUTME: Validates the registration form locally before it is sent

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Business types accepted by the API
const (
	TypeService  = "Service"
	TypeProduct  = "Product"
	TypeHybrid   = "Products & Services"
	ImageField   = "image"
	maxImageSize = 1 << 20
)

// BusinessTypes lists the accepted business types
var BusinessTypes = []string{TypeHybrid, TypeProduct, TypeService}

var (
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NewBusiness is the registration form for a vendor's business
type NewBusiness struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	BusinessType   string `json:"buisness_type"`
	ManagerName    string `json:"manager_name"`
	BuildingName   string `json:"building_name"`
	Landmark       string `json:"landmark"`
	Locality       string `json:"locality"`
	District       string `json:"district"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	WhatsappNumber string `json:"whatsapp_number"`
	Email          string `json:"email"`
	InchargeNumber string `json:"incharge_number"`
	UserID         int    `json:"uid"`
}

// Validate reports every problem with the form
func (b NewBusiness) Validate() error {
	var errs []error
	if b.UserID <= 0 {
		errs = append(errs, errors.New("owner user id is required"))
	}
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, errors.New("business name is required"))
	}
	if !validBusinessType(b.BusinessType) {
		errs = append(errs, fmt.Errorf("business type must be one of %s", strings.Join(BusinessTypes, ", ")))
	}
	for _, f := range [][2]string{{"locality", b.Locality}, {"city", b.City}, {"state", b.State}} {
		if strings.TrimSpace(f[1]) == "" {
			errs = append(errs, fmt.Errorf("%s is required", f[0]))
		}
	}
	if !pincodePattern.MatchString(b.Pincode) {
		errs = append(errs, errors.New("pincode must be 6 digits"))
	}
	if !mobilePattern.MatchString(b.WhatsappNumber) {
		errs = append(errs, errors.New("whatsapp number must be a valid 10-digit mobile number"))
	}
	if b.InchargeNumber != "" && !mobilePattern.MatchString(b.InchargeNumber) {
		errs = append(errs, errors.New("incharge number must be a valid 10-digit mobile number"))
	}
	if b.Email != "" && !emailPattern.MatchString(b.Email) {
		errs = append(errs, errors.New("email address is invalid"))
	}
	return errors.Join(errs...)
}

func validBusinessType(t string) bool {
	for _, bt := range BusinessTypes {
		if t == bt {
			return true
		}
	}
	return false
}

type createdResponse struct {
	ID int `json:"id"`
}

// AddBusiness registers a business for an existing user and returns its id
func (c *Client) AddBusiness(ctx context.Context, b NewBusiness) (int, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var resp createdResponse
	if err := c.Post(ctx, "badmin/add_buisness/", b, &resp); err != nil {
		return 0, fmt.Errorf("failed to add business: %w", err)
	}
	return resp.ID, nil
}

func businessEditPath(id int) string {
	return fmt.Sprintf("users/buisnessesedit/%d/", id)
}

// EditBusiness applies a partial update to a business
func (c *Client) EditBusiness(ctx context.Context, id int, fields map[string]any) error {
	if id <= 0 {
		return errors.New("business id is required")
	}
	if len(fields) == 0 {
		return errors.New("nothing to update")
	}
	if err := c.Patch(ctx, businessEditPath(id), fields, nil); err != nil {
		return fmt.Errorf("failed to edit business %d: %w", id, err)
	}
	return nil
}

// UploadBusinessImage replaces the profile image of a business
func (c *Client) UploadBusinessImage(ctx context.Context, id int, path string) error {
	if id <= 0 {
		return errors.New("business id is required")
	}
	if err := checkImage(path); err != nil {
		return err
	}

	form := &MultipartForm{Files: []FormFile{{Field: ImageField, Path: path}}}
	if err := c.PatchMultipart(ctx, businessEditPath(id), form, nil); err != nil {
		return fmt.Errorf("failed to upload image for business %d: %w", id, err)
	}
	return nil
}

// checkImage rejects a path that is not a readable file of at most 1 MB
func checkImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read image: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxImageSize {
		return fmt.Errorf("image %s is larger than %d MB", filepath.Base(path), maxImageSize>>20)
	}
	return nil
}

type paymentRequest struct {
	PlanVariantID int `json:"pvid"`
	BusinessID    int `json:"bid"`
}

type paymentResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// InitiatePayment starts a plan purchase for a business and returns the
// payment gateway URL the vendor should be sent to.
func (c *Client) InitiatePayment(ctx context.Context, planVariantID, businessID int) (string, error) {
	if planVariantID <= 0 || businessID <= 0 {
		return "", errors.New("plan variant id and business id are required")
	}
	var resp paymentResponse
	err := c.Post(ctx, "initiate-payment/", paymentRequest{
		PlanVariantID: planVariantID,
		BusinessID:    businessID,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to initiate payment: %w", err)
	}
	if resp.RedirectURL == "" {
		return "", errors.New("payment was not started: no redirect URL returned")
	}
	return resp.RedirectURL, nil
}
