package handler

import (
	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler is repo-backed; contacts have no business rules beyond
// basic validation.
type ContactHandler struct {
	contactRepo repository.ContactRepository
}

func NewContactHandler(contactRepo repository.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// CreateContact handles contact creation
// POST /api/v1/contacts
func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var contact model.Contact
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&contact); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}

	contact.CreatedBy = getUserID(c)
	contact.UpdatedBy = getUserID(c)
	if err := h.contactRepo.Create(&contact); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create contact"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Contact created", "data": contact})
}

// GetContacts returns all contacts
// GET /api/v1/contacts
func (h *ContactHandler) GetContacts(c *fiber.Ctx) error {
	contacts, err := h.contactRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch contacts"})
	}
	return c.JSON(contacts)
}

// GetContact returns one contact
// GET /api/v1/contacts/:id
func (h *ContactHandler) GetContact(c *fiber.Ctx) error {
	contactID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}

	contact, err := h.contactRepo.FindByID(contactID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Contact not found"})
	}
	return c.JSON(contact)
}

// UpdateContact handles contact update
// PUT /api/v1/contacts/:id
func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	contactID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}

	existing, err := h.contactRepo.FindByID(contactID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Contact not found"})
	}

	var contact model.Contact
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Name = contact.Name
	existing.Phone = contact.Phone
	existing.Address = contact.Address
	existing.Note = contact.Note
	existing.UpdatedBy = getUserID(c)

	if err := h.contactRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update contact"})
	}
	return c.JSON(fiber.Map{"message": "Contact updated", "data": existing})
}

// DeleteContact soft-deletes a contact
// DELETE /api/v1/contacts/:id
func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	contactID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}

	if err := h.contactRepo.Delete(contactID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete contact"})
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}
