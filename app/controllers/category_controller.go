package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"omitempty,max=50"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
}

func categoryJSON(cat *models.Category) fiber.Map {
	return fiber.Map{
		"id":       cat.ID,
		"name":     cat.Name,
		"color":    cat.Color,
		"icon":     cat.Icon,
		"isPreset": cat.IsPreset,
	}
}

// HandleListCategories returns the shared presets followed by the caller's
// own categories.
func HandleListCategories(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	presets, err := repos.Category.ListPresets()
	if err != nil {
		return internalError(c, "Failed to load categories")
	}
	custom, err := repos.Category.ListByUser(userID)
	if err != nil {
		return internalError(c, "Failed to load categories")
	}

	out := make([]fiber.Map, 0, len(presets)+len(custom))
	for i := range presets {
		out = append(out, categoryJSON(&presets[i]))
	}
	for i := range custom {
		out = append(out, categoryJSON(&custom[i]))
	}
	return c.JSON(fiber.Map{"categories": out})
}

// HandleCreateCategory creates a custom category for the caller. Names must
// be unique across presets and the caller's own categories.
func HandleCreateCategory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req createCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	name := sanitizeString(req.Name)

	exists, err := repos.Category.NameExists(userID, name)
	if err != nil {
		return internalError(c, "Failed to check category name")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "A category with this name already exists")
	}

	cat := &models.Category{
		UserID: &userID,
		Name:   name,
		Color:  req.Color,
		Icon:   sanitizeString(req.Icon),
	}
	if cat.Color == "" {
		cat.Color = models.DefaultSubscriptionColor
	}
	if cat.Icon == "" {
		cat.Icon = models.DefaultCategoryIcon
	}

	if err := repos.Category.Create(cat); err != nil {
		return internalError(c, "Failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": categoryJSON(cat),
	})
}

// HandleUpdateCategory updates a custom category. Presets are shared and
// cannot be edited.
func HandleUpdateCategory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	catID := c.Params("id")

	var req updateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	cat, err := repos.Category.GetByID(catID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "Failed to load category")
	}
	if cat.IsPreset || cat.UserID == nil || *cat.UserID != userID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Preset categories cannot be modified")
	}

	if req.Name != nil {
		name := sanitizeString(*req.Name)
		if name != cat.Name {
			exists, err := repos.Category.NameExists(userID, name)
			if err != nil {
				return internalError(c, "Failed to check category name")
			}
			if exists {
				return jsonError(c, fiber.StatusConflict, "conflict", "A category with this name already exists")
			}
		}
		cat.Name = name
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if req.Icon != nil {
		cat.Icon = sanitizeString(*req.Icon)
	}

	if err := repos.Category.Update(cat); err != nil {
		return internalError(c, "Failed to update category")
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": categoryJSON(cat),
	})
}

// HandleDeleteCategory deletes a custom category and detaches it from any
// subscriptions that referenced it.
func HandleDeleteCategory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	catID := c.Params("id")

	repos := repository.GetGlobalRepositories()
	cat, err := repos.Category.GetByID(catID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "Failed to load category")
	}
	if cat.IsPreset || cat.UserID == nil || *cat.UserID != userID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Preset categories cannot be deleted")
	}

	if err := repos.Category.Delete(userID, catID); err != nil {
		if isNotFound(err) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "Failed to delete category")
	}

	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
