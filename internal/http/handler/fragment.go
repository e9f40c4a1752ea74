package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/YoonkyungKim/fragments/internal/http/middleware"
	"github.com/YoonkyungKim/fragments/internal/mediatype"
	"github.com/YoonkyungKim/fragments/internal/service"
)

// splitIDExtension separates an ":id" path value from an optional
// extension-style suffix: "abc123.html" -> ("abc123", ".html").
// Generated ids never contain dots, so the first dot starts the extension.
func splitIDExtension(raw string) (id, ext string) {
	id, rest, found := strings.Cut(raw, ".")
	if found {
		ext = "." + rest
	}
	return id, ext
}

// CreateFragment handles POST /v1/fragments. The raw request body is the
// payload; the Content-Type header is the fragment's type. Responds 201 with
// the record and a Location header, or 415 when the type is unsupported.
func CreateFragment(svc service.FragmentService, apiURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentType := c.Get(fiber.HeaderContentType)
		if !mediatype.IsSupported(contentType) {
			return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "unsupported content type")
		}

		data := c.Body()
		if data == nil {
			data = []byte{}
		}

		frag, err := svc.Create(c.UserContext(), middleware.OwnerIDFromCtx(c), contentType, data)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderLocation, apiURL+"/v1/fragments/"+frag.ID)
		return c.Status(fiber.StatusCreated).JSON(frag)
	}
}

// ListFragments handles GET /v1/fragments. With expand=1 the full records are
// returned, otherwise ids only.
func ListFragments(svc service.FragmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expand := c.Query("expand") == "1"

		res, err := svc.List(c.UserContext(), middleware.OwnerIDFromCtx(c), expand)
		if err != nil {
			return writeServiceError(c, err)
		}

		if expand {
			return c.JSON(fiber.Map{"fragments": res.Fragments})
		}
		return c.JSON(fiber.Map{"fragments": res.IDs})
	}
}

// GetFragmentData handles GET /v1/fragments/:id with an optional extension
// suffix selecting the representation ("abc.html"). The response body is the
// payload and Content-Type names the representation served.
func GetFragmentData(svc service.FragmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ext := splitIDExtension(c.Params("id"))

		data, contentType, err := svc.GetData(c.UserContext(), middleware.OwnerIDFromCtx(c), id, ext)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, contentType)
		return c.Status(fiber.StatusOK).Send(data)
	}
}

// GetFragmentInfo handles GET /v1/fragments/:id/info, returning metadata only.
func GetFragmentInfo(svc service.FragmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		frag, err := svc.Get(c.UserContext(), middleware.OwnerIDFromCtx(c), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"fragment": frag})
	}
}

// UpdateFragment handles PUT /v1/fragments/:id. The body replaces the
// payload; the fragment's type is immutable, so a differing Content-Type
// media type is rejected.
func UpdateFragment(svc service.FragmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := splitIDExtension(c.Params("id"))

		contentType := c.Get(fiber.HeaderContentType)
		if contentType == "" {
			return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "content type is required")
		}

		data := c.Body()
		if data == nil {
			data = []byte{}
		}

		frag, err := svc.Update(c.UserContext(), middleware.OwnerIDFromCtx(c), id, contentType, data)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"fragment": frag})
	}
}

// DeleteFragment handles DELETE /v1/fragments/:id.
func DeleteFragment(svc service.FragmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := splitIDExtension(c.Params("id"))

		if err := svc.Delete(c.UserContext(), middleware.OwnerIDFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
