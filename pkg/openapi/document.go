package openapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

const securityScheme = "bearerAuth"

type access int

const (
	public access = iota
	authenticated
)

type route struct {
	method      string
	path        string
	id          string
	summary     string
	tag         string
	access      access
	params      openapi3.Parameters
	body        *openapi3.RequestBodyRef
	status      int
	response    *openapi3.SchemaRef
	errorStatus []int
}

// Document describes the REST surface of the apiserver
func Document(title, version string) *openapi3.T {
	b := newBuilder()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: b.schemas,
			SecuritySchemes: openapi3.SecuritySchemes{
				securityScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}

	for _, r := range b.routes() {
		item := doc.Paths.Value(r.path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(r.path, item)
		}
		item.SetOperation(r.method, b.operation(r))
	}
	return doc
}

type builder struct {
	schemas openapi3.Schemas
}

func newBuilder() *builder {
	b := &builder{schemas: openapi3.Schemas{}}

	date := openapi3.NewStringSchema().WithFormat("date")
	b.define("Error", openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema()))
	b.define("User", openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("is_active", openapi3.NewBoolSchema()).
		WithProperty("role", openapi3.NewStringSchema().WithEnum("USER", "ADMIN")).
		WithProperty("created_at", openapi3.NewDateTimeSchema()))
	b.define("Token", openapi3.NewObjectSchema().
		WithProperty("access_token", openapi3.NewStringSchema()).
		WithProperty("token_type", openapi3.NewStringSchema()).
		WithProperty("expires_in", openapi3.NewInt64Schema()))
	b.define("Perfume", openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("brand", openapi3.NewStringSchema()).
		WithProperty("concentration", concentrationSchema()).
		WithProperty("season", seasonSchema()).
		WithProperty("available", openapi3.NewBoolSchema()).
		WithProperty("user_id", openapi3.NewInt64Schema()))
	b.define("Purchase", openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("perfume_id", openapi3.NewInt64Schema()).
		WithProperty("user_id", openapi3.NewInt64Schema()).
		WithProperty("date", date).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("store", openapi3.NewStringSchema().WithNullable()).
		WithProperty("ml", openapi3.NewIntegerSchema()))
	b.define("PerfumePage", pageSchema(b.ref("Perfume")))
	b.define("PurchasePage", pageSchema(b.ref("Purchase")))
	b.define("UserPage", pageSchema(b.ref("User")))
	b.define("SpendingSummary", openapi3.NewObjectSchema().
		WithProperty("total_spent", openapi3.NewFloat64Schema()).
		WithProperty("total_purchases", openapi3.NewInt64Schema()).
		WithProperty("average_price", openapi3.NewFloat64Schema()))
	b.define("RankedPurchase", openapi3.NewObjectSchema().
		WithProperty("rank", openapi3.NewIntegerSchema()).
		WithProperty("perfume_name", openapi3.NewStringSchema()).
		WithProperty("brand", openapi3.NewStringSchema()).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("date", date))
	b.define("Dashboard", openapi3.NewObjectSchema().
		WithProperty("total_users", openapi3.NewInt64Schema()).
		WithProperty("total_perfumes", openapi3.NewInt64Schema()).
		WithProperty("total_purchases", openapi3.NewInt64Schema()).
		WithProperty("total_amount", openapi3.NewFloat64Schema()).
		WithProperty("active_users", openapi3.NewInt64Schema()))

	user := b.ref("User")
	b.define("TopUsers", openapi3.NewObjectSchema().
		WithPropertyRef("most_perfumes", nullableArray(openapi3.NewObjectSchema().
			WithProperty("perfume_count", openapi3.NewInt64Schema()).
			WithPropertyRef("user", user))).
		WithPropertyRef("most_expensive_purchase", nullableArray(openapi3.NewObjectSchema().
			WithProperty("price", openapi3.NewFloat64Schema()).
			WithPropertyRef("perfume", b.ref("Perfume")).
			WithPropertyRef("user", user))).
		WithPropertyRef("most_expensive_collection", nullableArray(openapi3.NewObjectSchema().
			WithProperty("total_spent", openapi3.NewFloat64Schema()).
			WithPropertyRef("user", user))))
	b.define("Health", openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()))
	return b
}

func (b *builder) define(name string, schema *openapi3.Schema) {
	b.schemas[name] = openapi3.NewSchemaRef("", schema)
}

// ref points at a component schema and carries its value so the document validates standalone
func (b *builder) ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, b.schemas[name].Value)
}

func concentrationSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("EDC", "EDT", "EDP", "PARFUM", "OTHER")
}

func seasonSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithEnum("SUMMER", "WINTER", "ALL", "OTHER")
}

func perfumeBody() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("brand", openapi3.NewStringSchema()).
		WithProperty("concentration", concentrationSchema()).
		WithProperty("season", seasonSchema()).
		WithProperty("available", openapi3.NewBoolSchema())
}

func pageSchema(item *openapi3.SchemaRef) *openapi3.Schema {
	items := openapi3.NewArraySchema()
	items.Items = item
	return openapi3.NewObjectSchema().
		WithProperty("items", items).
		WithProperty("total", openapi3.NewInt64Schema())
}

func nullableArray(item *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(item).WithNullable())
}

func query(name string, schema *openapi3.Schema) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Value: openapi3.NewQueryParameter(name).WithSchema(schema)}
}

func pathID() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewInt64Schema())}
}

func pageParams() openapi3.Parameters {
	return openapi3.Parameters{
		query("limit", openapi3.NewIntegerSchema().WithMin(1).WithMax(100)),
		query("offset", openapi3.NewIntegerSchema().WithMin(0)),
	}
}

func jsonBody(schema *openapi3.Schema) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(schema)}
}

// formBody describes an application/x-www-form-urlencoded body, the only
// form encoding gin's FormPost binding reads
func formBody(schema *openapi3.Schema) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).
		WithContent(openapi3.NewContentWithSchema(schema, []string{"application/x-www-form-urlencoded"}))}
}

func (b *builder) routes() []route {
	date := openapi3.NewStringSchema().WithFormat("date")
	dateRange := openapi3.Parameters{query("start_date", date), query("end_date", date)}

	return []route{
		{method: http.MethodGet, path: "/", id: "health", summary: "Service health", tag: "ops",
			status: http.StatusOK, response: b.ref("Health")},

		{method: http.MethodPost, path: "/auth/register", id: "register", summary: "Create an account", tag: "auth",
			body: jsonBody(openapi3.NewObjectSchema().
				WithRequired([]string{"username", "email", "password"}).
				WithProperty("username", openapi3.NewStringSchema()).
				WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
				WithProperty("password", openapi3.NewStringSchema())),
			status: http.StatusCreated, response: b.ref("User"), errorStatus: []int{400, 409, 429}},
		{method: http.MethodPost, path: "/auth/login", id: "login", summary: "Exchange credentials for a token", tag: "auth",
			body: formBody(openapi3.NewObjectSchema().
				WithRequired([]string{"username", "password"}).
				WithProperty("username", openapi3.NewStringSchema()).
				WithProperty("password", openapi3.NewStringSchema())),
			status: http.StatusOK, response: b.ref("Token"), errorStatus: []int{400, 401, 429}},
		{method: http.MethodGet, path: "/auth/me", id: "me", summary: "Current user", tag: "auth", access: authenticated,
			status: http.StatusOK, response: b.ref("User"), errorStatus: []int{401, 403}},
		{method: http.MethodPost, path: "/auth/logout", id: "logout", summary: "Revoke the current token", tag: "auth", access: authenticated,
			status: http.StatusNoContent, errorStatus: []int{401}},

		{method: http.MethodPost, path: "/perfumes", id: "createPerfume", summary: "Add a perfume", tag: "perfumes", access: authenticated,
			body:   jsonBody(perfumeBody().WithRequired([]string{"name", "brand", "concentration", "season"})),
			status: http.StatusCreated, response: b.ref("Perfume"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodGet, path: "/perfumes", id: "listPerfumes", summary: "List own perfumes", tag: "perfumes", access: authenticated,
			params: append(openapi3.Parameters{
				query("available", openapi3.NewBoolSchema()),
				query("concentration", concentrationSchema()),
				query("season", seasonSchema()),
				query("brand", openapi3.NewStringSchema()),
				query("sort_by", openapi3.NewStringSchema().WithEnum("name", "brand")),
				query("order", openapi3.NewStringSchema().WithEnum("asc", "desc")),
			}, pageParams()...),
			status: http.StatusOK, response: b.ref("PerfumePage"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodGet, path: "/perfumes/{id}", id: "getPerfume", summary: "Get a perfume", tag: "perfumes", access: authenticated,
			params: openapi3.Parameters{pathID()},
			status: http.StatusOK, response: b.ref("Perfume"), errorStatus: []int{401, 403, 404}},
		{method: http.MethodPatch, path: "/perfumes/{id}", id: "updatePerfume", summary: "Update a perfume", tag: "perfumes", access: authenticated,
			params: openapi3.Parameters{pathID()}, body: jsonBody(perfumeBody()),
			status: http.StatusOK, response: b.ref("Perfume"), errorStatus: []int{400, 401, 403, 404}},
		{method: http.MethodDelete, path: "/perfumes/{id}", id: "deletePerfume", summary: "Delete a perfume and its purchases", tag: "perfumes", access: authenticated,
			params: openapi3.Parameters{pathID()},
			status: http.StatusNoContent, errorStatus: []int{401, 403, 404}},
		{method: http.MethodGet, path: "/perfumes/{id}/purchases", id: "listPerfumePurchases", summary: "Purchases of a perfume", tag: "perfumes", access: authenticated,
			params: append(openapi3.Parameters{pathID()}, pageParams()...),
			status: http.StatusOK, response: b.ref("PurchasePage"), errorStatus: []int{400, 401, 403, 404}},

		{method: http.MethodPost, path: "/purchases", id: "createPurchase", summary: "Record a purchase", tag: "purchases", access: authenticated,
			body: jsonBody(openapi3.NewObjectSchema().
				WithRequired([]string{"perfume_id", "date", "price"}).
				WithProperty("perfume_id", openapi3.NewInt64Schema()).
				WithProperty("date", date).
				WithProperty("price", openapi3.NewFloat64Schema().WithMin(0)).
				WithProperty("store", openapi3.NewStringSchema()).
				WithProperty("ml", openapi3.NewIntegerSchema().WithMin(0))),
			status: http.StatusCreated, response: b.ref("Purchase"), errorStatus: []int{400, 401, 403, 404}},
		{method: http.MethodGet, path: "/purchases", id: "listPurchases", summary: "List own purchases", tag: "purchases", access: authenticated,
			params: append(append(dateRange,
				query("min_price", openapi3.NewFloat64Schema().WithMin(0)),
				query("max_price", openapi3.NewFloat64Schema().WithMin(0))),
				pageParams()...),
			status: http.StatusOK, response: b.ref("PurchasePage"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodGet, path: "/purchases/{id}", id: "getPurchase", summary: "Get a purchase", tag: "purchases", access: authenticated,
			params: openapi3.Parameters{pathID()},
			status: http.StatusOK, response: b.ref("Purchase"), errorStatus: []int{401, 403, 404}},
		{method: http.MethodDelete, path: "/purchases/{id}", id: "deletePurchase", summary: "Delete a purchase", tag: "purchases", access: authenticated,
			params: openapi3.Parameters{pathID()},
			status: http.StatusNoContent, errorStatus: []int{401, 403, 404}},

		{method: http.MethodGet, path: "/stats/spending", id: "spendingSummary", summary: "Spending summary", tag: "stats", access: authenticated,
			params: dateRange,
			status: http.StatusOK, response: b.ref("SpendingSummary"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodGet, path: "/stats/most_expensive", id: "mostExpensive", summary: "Most expensive purchases", tag: "stats", access: authenticated,
			params: openapi3.Parameters{query("num", openapi3.NewIntegerSchema().WithMin(1))},
			status: http.StatusOK, response: openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(b.ref("RankedPurchase").Value)),
			errorStatus: []int{400, 401, 403}},

		{method: http.MethodGet, path: "/admin/stats/dashboard", id: "adminDashboard", summary: "Store-wide totals", tag: "admin", access: authenticated,
			status: http.StatusOK, response: b.ref("Dashboard"), errorStatus: []int{401, 403}},
		{method: http.MethodGet, path: "/admin/stats/top-users", id: "adminTopUsers", summary: "User rankings", tag: "admin", access: authenticated,
			params: openapi3.Parameters{query("limit", openapi3.NewIntegerSchema().WithMin(1).WithMax(10))},
			status: http.StatusOK, response: b.ref("TopUsers"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodGet, path: "/admin/users", id: "adminListUsers", summary: "List accounts", tag: "admin", access: authenticated,
			params: pageParams(),
			status: http.StatusOK, response: b.ref("UserPage"), errorStatus: []int{400, 401, 403}},
		{method: http.MethodPatch, path: "/admin/users/{id}", id: "adminUpdateUser", summary: "Change role or active flag", tag: "admin", access: authenticated,
			params: openapi3.Parameters{pathID()},
			body: jsonBody(openapi3.NewObjectSchema().
				WithProperty("role", openapi3.NewStringSchema().WithEnum("USER", "ADMIN")).
				WithProperty("is_active", openapi3.NewBoolSchema())),
			status: http.StatusOK, response: b.ref("User"), errorStatus: []int{400, 401, 403, 404}},
		{method: http.MethodDelete, path: "/admin/users/{id}", id: "adminDeleteUser", summary: "Delete an account with its perfumes and purchases", tag: "admin", access: authenticated,
			params: openapi3.Parameters{pathID()},
			status: http.StatusNoContent, errorStatus: []int{400, 401, 403, 404}},
	}
}

func (b *builder) operation(r route) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = r.id
	op.Summary = r.summary
	op.Tags = []string{r.tag}
	op.Parameters = r.params
	op.RequestBody = r.body
	op.Responses = &openapi3.Responses{}

	if r.access == authenticated {
		op.Security = &openapi3.SecurityRequirements{openapi3.NewSecurityRequirement().Authenticate(securityScheme)}
	}

	ok := openapi3.NewResponse().WithDescription(http.StatusText(r.status))
	if r.response != nil {
		ok = ok.WithJSONSchemaRef(r.response)
	}
	op.AddResponse(r.status, ok)

	for _, status := range r.errorStatus {
		op.AddResponse(status, openapi3.NewResponse().
			WithDescription(http.StatusText(status)).
			WithJSONSchemaRef(b.ref("Error")))
	}
	return op
}

// StatusCodes lists the numeric response codes documented for op
func StatusCodes(op *openapi3.Operation) []string {
	if op == nil || op.Responses == nil {
		return nil
	}
	codes := make([]string, 0, op.Responses.Len())
	for code := range op.Responses.Map() {
		if _, err := strconv.Atoi(code); err == nil {
			codes = append(codes, code)
		}
	}
	return codes
}
