package controllers

import (
	"errors"
	"fmt"
	"strings"

	"patio-app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type DriverController struct {
	DB *gorm.DB
}

var driverInput struct {
	DriverCode  string `json:"driver_code"`
	DriverName  string `json:"driver_name"`
	DriverType  string `json:"driver_type"`
	DriverPhone string `json:"driver_phone"`
	IsActive    *bool  `json:"is_active"`
}

func NewDriverController(db *gorm.DB) *DriverController {
	return &DriverController{DB: db}
}

func (c *DriverController) CreateDriver(ctx *fiber.Ctx) error {
	if err := ctx.BodyParser(&driverInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if driverInput.DriverCode == "" || driverInput.DriverName == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driver_code and driver_name are required"})
	}

	driverType := driverInput.DriverType
	if driverType == "" {
		driverType = models.DriverTypeInternal
	}
	if driverType != models.DriverTypeInternal && driverType != models.DriverTypeExternal {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driver_type must be internal or external"})
	}

	driver := models.Driver{
		DriverCode:  driverInput.DriverCode,
		DriverName:  driverInput.DriverName,
		DriverType:  driverType,
		DriverPhone: driverInput.DriverPhone,
		IsActive:    true,
		CreatedBy:   int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Create(&driver).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Driver created successfully", "data": driver})
}

// GetAllDrivers supports ?type=internal so the reception dialogs only
// offer eligible drivers.
func (c *DriverController) GetAllDrivers(ctx *fiber.Ctx) error {
	query := c.DB
	if t := ctx.Query("type"); t != "" {
		query = query.Where("driver_type = ?", t)
	}
	if ctx.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var drivers []models.Driver
	if err := query.Find(&drivers).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Drivers found", "data": drivers})
}

func (c *DriverController) GetDriverByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var result models.Driver
	if err := c.DB.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Driver found", "data": result})
}

func (c *DriverController) UpdateDriver(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := ctx.BodyParser(&driverInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if driverInput.DriverType != "" &&
		driverInput.DriverType != models.DriverTypeInternal &&
		driverInput.DriverType != models.DriverTypeExternal {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driver_type must be internal or external"})
	}

	updates := map[string]interface{}{
		"driver_code":  driverInput.DriverCode,
		"driver_name":  driverInput.DriverName,
		"driver_phone": driverInput.DriverPhone,
		"updated_by":   int(ctx.Locals("userID").(float64)),
	}
	if driverInput.DriverType != "" {
		updates["driver_type"] = driverInput.DriverType
	}
	if driverInput.IsActive != nil {
		updates["is_active"] = *driverInput.IsActive
	}

	if err := c.DB.Model(&models.Driver{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Driver updated successfully"})
}

func (c *DriverController) DeleteDriver(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var driver models.Driver
	if err := c.DB.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	driver.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", id).Updates(&driver).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&driver).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Driver deleted successfully", "data": driver})
}

// CreateDriverFromExcel bulk-imports drivers from an uploaded .xlsx with
// columns CODE, NAME, TYPE, PHONE. Existing codes are skipped.
func (c *DriverController) CreateDriverFromExcel(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx, .xls) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read Excel file",
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No sheets found in Excel file",
		})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read rows",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Excel file must contain header and at least one data row",
		})
	}

	result := CustomerUploadResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}

	userID := int(ctx.Locals("userID").(float64))

	tx := c.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for i, row := range rows[1:] {
		rowNum := i + 2

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Insufficient columns (expected at least 2)", rowNum))
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])
		driverType := models.DriverTypeInternal
		phone := ""
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			driverType = strings.ToLower(strings.TrimSpace(row[2]))
		}
		if len(row) > 3 {
			phone = strings.TrimSpace(row[3])
		}

		if code == "" || name == "" {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: CODE and NAME are required", rowNum))
			continue
		}
		if driverType != models.DriverTypeInternal && driverType != models.DriverTypeExternal {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: TYPE must be internal or external, got '%s'", rowNum, driverType))
			continue
		}

		var existing models.Driver
		if err := tx.Where("driver_code = ?", code).First(&existing).Error; err == nil {
			result.SkippedCount++
			result.SkippedItems = append(result.SkippedItems, code)
			continue
		}

		driver := models.Driver{
			DriverCode:  code,
			DriverName:  name,
			DriverType:  driverType,
			DriverPhone: phone,
			IsActive:    true,
			CreatedBy:   userID,
		}
		if err := tx.Create(&driver).Error; err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Failed to create driver - %s", rowNum, err.Error()))
			continue
		}

		result.SuccessCount++
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to commit transaction",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Upload completed: %d success, %d skipped, %d errors",
			result.SuccessCount, result.SkippedCount, result.ErrorCount),
		"data": result,
	})
}
