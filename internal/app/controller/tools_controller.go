package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/calc"
)

// ToolsController exposes the aquarium calculators.
type ToolsController struct{}

func NewToolsController() *ToolsController {
	return &ToolsController{}
}

// floatQuery reads a required numeric query parameter.
func floatQuery(c *gin.Context, name string, fields map[string]string) float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		fields[name] = "is required"
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[name] = "must be a number"
		return 0
	}
	return v
}

func optionalFloatQuery(c *gin.Context, name string, fields map[string]string) float64 {
	if strings.TrimSpace(c.Query(name)) == "" {
		return 0
	}
	return floatQuery(c, name, fields)
}

func respondCalc(c *gin.Context, fields map[string]string, result interface{}, err error) {
	if len(fields) > 0 {
		errors.RespondWithValidationError(c, fields)
		return
	}
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Please enter valid positive values")
		return
	}
	c.JSON(http.StatusOK, result)
}

// TankVolume GET /api/v1/tools/tank-volume?shape=&length=&width=&height=
func (ctrl *ToolsController) TankVolume(c *gin.Context) {
	fields := map[string]string{}
	shape := calc.TankShape(c.DefaultQuery("shape", string(calc.ShapeRectangular)))
	var length float64
	if shape != calc.ShapeCylinder {
		length = floatQuery(c, "length", fields)
	}
	width := floatQuery(c, "width", fields)
	height := floatQuery(c, "height", fields)
	if len(fields) > 0 {
		respondCalc(c, fields, nil, nil)
		return
	}
	res, err := calc.TankVolume(shape, length, width, height)
	respondCalc(c, nil, res, err)
}

// Heater GET /api/v1/tools/heater?gallons=&room_temp=&desired_temp=
func (ctrl *ToolsController) Heater(c *gin.Context) {
	fields := map[string]string{}
	gallons := floatQuery(c, "gallons", fields)
	room := floatQuery(c, "room_temp", fields)
	desired := floatQuery(c, "desired_temp", fields)
	if len(fields) > 0 {
		respondCalc(c, fields, nil, nil)
		return
	}
	res, err := calc.HeaterWattage(gallons, room, desired)
	respondCalc(c, nil, res, err)
}

// CO2 GET /api/v1/tools/co2?ph=&kh=&gallons=
func (ctrl *ToolsController) CO2(c *gin.Context) {
	fields := map[string]string{}
	ph := floatQuery(c, "ph", fields)
	kh := floatQuery(c, "kh", fields)
	gallons := optionalFloatQuery(c, "gallons", fields)
	if len(fields) > 0 {
		respondCalc(c, fields, nil, nil)
		return
	}
	res, err := calc.CO2PPM(ph, kh, gallons)
	respondCalc(c, nil, res, err)
}

// Salinity GET /api/v1/tools/salinity?ppt= or ?sg=
func (ctrl *ToolsController) Salinity(c *gin.Context) {
	fields := map[string]string{}
	switch {
	case c.Query("ppt") != "":
		ppt := floatQuery(c, "ppt", fields)
		if len(fields) > 0 {
			respondCalc(c, fields, nil, nil)
			return
		}
		res, err := calc.SalinityFromPPT(ppt)
		respondCalc(c, nil, res, err)
	case c.Query("sg") != "":
		sg := floatQuery(c, "sg", fields)
		if len(fields) > 0 {
			respondCalc(c, fields, nil, nil)
			return
		}
		res, err := calc.SalinityFromSG(sg)
		respondCalc(c, nil, res, err)
	default:
		fields["ppt"] = "ppt or sg is required"
		respondCalc(c, fields, nil, nil)
	}
}

// Stocking GET /api/v1/tools/stocking?gallons=&type=
func (ctrl *ToolsController) Stocking(c *gin.Context) {
	fields := map[string]string{}
	gallons := floatQuery(c, "gallons", fields)
	if len(fields) > 0 {
		respondCalc(c, fields, nil, nil)
		return
	}
	category := calc.StockingCategory(strings.ToLower(c.DefaultQuery("type", string(calc.StockFreshwater))))
	res, err := calc.Stocking(gallons, category)
	respondCalc(c, nil, res, err)
}

// WaterChange GET /api/v1/tools/water-change?gallons=&percent=
func (ctrl *ToolsController) WaterChange(c *gin.Context) {
	fields := map[string]string{}
	gallons := floatQuery(c, "gallons", fields)
	percent := floatQuery(c, "percent", fields)
	if len(fields) > 0 {
		respondCalc(c, fields, nil, nil)
		return
	}
	res, err := calc.WaterChange(gallons, percent)
	respondCalc(c, nil, res, err)
}
