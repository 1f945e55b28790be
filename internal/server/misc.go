package server

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Placeholders for the asset-mapping models that run out of process. The
// routes keep the frontend contract stable until that service is deployed.

var defaultAssetTypes = []string{"agricultural_land", "forest_cover", "water_bodies", "homesteads"}

func (s *Server) handleMLModelStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"models": echo.Map{
			"asset_detection": echo.Map{
				"status":  "loaded",
				"version": "1.0.0",
			},
			"ner_extraction": echo.Map{
				"status":  "loaded",
				"version": "1.0.0",
			},
		},
	})
}

func (s *Server) handleAssetDetect(c echo.Context) error {
	var body struct {
		VillageID  string   `json:"village_id"`
		BBox       string   `json:"bbox"`
		AssetTypes []string `json:"asset_types"`
	}
	if err := c.Bind(&body); err != nil {
		return s.handleError(c, err, "Invalid detection request", http.StatusBadRequest)
	}

	types := body.AssetTypes
	if len(types) == 0 {
		types = defaultAssetTypes
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"job_id":         "ml_job_" + correlationID(),
		"status":         "processing",
		"village_id":     body.VillageID,
		"asset_types":    types,
		"estimated_time": "5-10 minutes",
	})
}

// transparentTile is a blank 256x256 PNG encoded once at startup. Map
// frontends overlay it wherever no imagery tile exists yet.
var transparentTile = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 256, 256))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

func (s *Server) handleTile(c echo.Context) error {
	z, zErr := strconv.Atoi(c.Param("z"))
	x, xErr := strconv.Atoi(c.Param("x"))
	y, yErr := strconv.Atoi(strings.TrimSuffix(c.Param("y"), ".png"))
	if zErr != nil || xErr != nil || yErr != nil {
		return s.handleError(c, nil, "Tile coordinates must be integers", http.StatusBadRequest)
	}
	if z < 0 || z > 22 || x < 0 || y < 0 {
		return s.handleError(c, nil, "Tile coordinates out of range", http.StatusBadRequest)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", transparentTile)
}
