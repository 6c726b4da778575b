package request

import (
	"encoding/json"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hankerbiao/Registration-System/internal/api/apierr"
	"github.com/hankerbiao/Registration-System/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// option=<field> accepts one of the athlete options for that field
	_ = v.RegisterValidation("option", func(fl validator.FieldLevel) bool {
		opts, ok := model.AthleteOptions(fl.Param())
		return ok && slices.Contains(opts, fl.Field().String())
	})
	return v
}

// Validate checks v against its struct tags, returning a 422 apierr on failure
func Validate(loc string, v any) error {
	if err := validate.Struct(v); err != nil {
		return apierr.FromValidation(loc, err)
	}
	return nil
}

// DecodeJSON reads the JSON body of r into dst and validates it
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("JSON decode error")
	}
	return Validate("body", dst)
}

// DecodeLogin reads the OAuth2 password form fields of r
func DecodeLogin(r *http.Request) (Login, error) {
	if err := r.ParseForm(); err != nil {
		return Login{}, apierr.NewInvalidRequestError("invalid form body")
	}
	login := Login{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	return login, Validate("body", login)
}

// DecodePage reads skip and limit from the query string of r
func DecodePage(r *http.Request) (Page, error) {
	var p Page
	q := r.URL.Query()
	for key, dst := range map[string]*int{"skip": &p.Skip, "limit": &p.Limit} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, &apierr.Error{
				Status: http.StatusUnprocessableEntity,
				Detail: []apierr.ValidationIssue{{
					Msg:  "Input should be a valid integer",
					Loc:  []string{"query", key},
					Type: "int_parsing",
				}},
			}
		}
		*dst = n
	}
	return p, Validate("query", p)
}
