package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/logging"
	"github.com/minhtri-dev/coffeeshop/internal/service/search"
	"github.com/minhtri-dev/coffeeshop/internal/util"
)

type SearchHTTP struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHTTP) SearchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, "query parameter q required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, products, err := search.Search(ctx, h.ES, h.Index, query, from, limit)
	if err != nil {
		l.Error("menu_search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":    total,
		"products": products,
	})
}
