package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/service"
)

// requestError is a client mistake whose text is returned verbatim.
type requestError string

func (e requestError) Error() string { return string(e) }

const (
	errNoJSON    requestError = "No JSON data provided"
	errEmptyJSON requestError = "Empty JSON data"
)

var errTooLarge = errors.New("payload too large")

// ImportRunner runs one import; *service.ImportService satisfies it.
type ImportRunner interface {
	Run(ctx context.Context, source string, doc json.RawMessage) (service.Outcome, error)
}

// ImportHandler accepts bulk catalog documents.
type ImportHandler struct {
	Runner   ImportRunner
	MaxBytes int64 // payloads above this are rejected with 413
	Logger   *zap.Logger
}

// Create reads the document from the multipart "file" field, the
// "json_data" form field or a JSON body, in that order, and imports it.
// A successful import answers 201, a failed one 422.
func (h *ImportHandler) Create(c echo.Context) error {
	raw, source, err := h.extract(c)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "payload too large"})
		}
		return c.JSON(http.StatusBadRequest, failure(
			"Invalid request: "+err.Error(),
			"Request error: "+err.Error(),
		))
	}

	var doc json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return c.JSON(http.StatusBadRequest, failure(
			"Invalid JSON format",
			"JSON parsing failed: "+err.Error(),
		))
	}

	out, err := h.Runner.Run(c.Request().Context(), source, doc)
	if err != nil {
		h.logger().Error("import failed", zap.String("import_id", out.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, failure(
			"Import failed: "+err.Error(),
			"Unexpected error: "+err.Error(),
		))
	}

	c.Response().Header().Set("X-Import-ID", out.ID)
	if out.Result.Success {
		return c.JSON(http.StatusCreated, out.Result)
	}
	return c.JSON(http.StatusUnprocessableEntity, out.Result)
}

func (h *ImportHandler) extract(c echo.Context) ([]byte, string, error) {
	req := c.Request()
	if h.MaxBytes > 0 {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, h.MaxBytes)
	}
	ctype := req.Header.Get(echo.HeaderContentType)

	var raw []byte
	var source string
	switch {
	case strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, "", tooLargeOr(err)
		}
		if files := form.File["file"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				return nil, "", err
			}
			defer f.Close()
			if raw, err = readLimited(f, h.MaxBytes); err != nil {
				return nil, "", err
			}
			source = "file"
		} else if v := form.Value["json_data"]; len(v) > 0 && v[0] != "" {
			raw, source = []byte(v[0]), "json_data"
		} else {
			return nil, "", errNoJSON
		}
	case c.FormValue("json_data") != "":
		raw, source = []byte(c.FormValue("json_data")), "json_data"
	case strings.Contains(ctype, echo.MIMEApplicationJSON):
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, "", tooLargeOr(err)
		}
		raw, source = b, "body"
	default:
		return nil, "", errNoJSON
	}

	if strings.TrimSpace(string(raw)) == "" {
		return nil, "", errEmptyJSON
	}
	return raw, source, nil
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, errTooLarge
	}
	return b, nil
}

func tooLargeOr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errTooLarge
	}
	return fmt.Errorf("reading request: %w", err)
}

func failure(msg, logMsg string) echo.Map {
	return echo.Map{
		"success": false,
		"error":   msg,
		"logs": []importer.LogEntry{
			{Level: importer.LevelError, Message: logMsg, Timestamp: time.Now().UTC()},
		},
	}
}

func (h *ImportHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
