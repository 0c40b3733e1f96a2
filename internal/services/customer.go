package services

import (
	"errors"

	"gorm.io/gorm"

	"invoiceapp/internal/models"
	"invoiceapp/internal/validation"
)

// CustomerInput carries a customer form submission. The mapping onto the
// model is explicit, field by field, so it stays auditable.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (in CustomerInput) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.Email("email", in.Email, v)
	return v
}

func (in CustomerInput) apply(c *models.Customer) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) Create(in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	in.apply(&customer)
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Update(id uint, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		in.apply(&customer)
		return tx.Save(&customer).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes a customer. Deletion is restricted while any invoice still
// references the customer, to avoid dangling invoice rows.
func (s *CustomerService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var count int64
		if err := tx.Model(&models.Invoice{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCustomerHasInvoices
		}
		return tx.Delete(&customer).Error
	})
}

func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// List returns all customers ordered by name, as shown in lists and the
// invoice form dropdown.
func (s *CustomerService) List() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.Order("name").Find(&customers).Error
	return customers, err
}
