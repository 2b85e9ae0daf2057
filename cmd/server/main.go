// Command server exposes the renderer over HTTP for the surrounding
// asset-generation pipeline: POST a template document, receive the
// rendered PNG. Element error counts travel in a response header so the
// caller can flag partially rendered assets.
package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	adcanvas "github.com/feedforge/adcanvas"
)

func main() {
	renderer := adcanvas.NewRenderer(nil)

	r := gin.Default()
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/render", renderHandler(renderer))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("starting render server on :" + port)
	if err := r.Run(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": adcanvas.Version})
}

func renderHandler(renderer *adcanvas.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		img, elemErrs, err := renderer.CombineJSON(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var buf bytes.Buffer
		if err := adcanvas.EncodePNG(&buf, img); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("X-Render-Errors", strconv.Itoa(len(elemErrs)))
		for _, e := range elemErrs {
			log.Println("element error:", e.Error())
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}
