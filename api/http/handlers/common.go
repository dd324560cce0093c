package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/pkg/candidate"
	"github.com/vbncursed/talentgate/pkg/directory"
	"github.com/vbncursed/talentgate/pkg/resume"
)

// actorFrom reads the authenticated caller out of the middleware locals.
func actorFrom(c *fiber.Ctx) (candidate.Actor, bool) {
	userStr, _ := c.Locals("userId").(string)
	tenantStr, _ := c.Locals("tenantId").(string)
	role, _ := c.Locals("role").(string)
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return candidate.Actor{}, false
	}
	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return candidate.Actor{}, false
	}
	if role != directory.RoleAdmin && role != directory.RoleRecruiter {
		return candidate.Actor{}, false
	}
	return candidate.Actor{UserID: userID, TenantID: tenantID, Role: role}, true
}

// documentFrom reads an optional multipart "file" field into a Document.
// Returns nil when no file was sent.
func documentFrom(c *fiber.Ctx, maxBytes int64) (*resume.Document, error) {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".docx" && ext != ".txt" {
		return nil, fmt.Errorf("unsupported file format: only pdf, docx and txt are allowed")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file")
	}
	defer f.Close()

	data, err := readAtMost(f, maxBytes)
	if err != nil {
		return nil, err
	}
	return &resume.Document{
		Data:     data,
		MimeType: fh.Header.Get("Content-Type"),
		Filename: fh.Filename,
		Size:     int64(len(data)),
	}, nil
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}

func parseLimitOffset(c *fiber.Ctx, defLimit int) (limit, offset int) {
	limit = defLimit
	offset = 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func parseOptionalUUID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}
