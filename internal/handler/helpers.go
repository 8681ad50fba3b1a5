package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/angelous0/muestras/internal/apierror"
	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	// Report json names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// bindFiltro reads the list/count query parameters.
func bindFiltro(c *gin.Context) (dto.ListaFiltro, bool) {
	var f dto.ListaFiltro
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros invalidos: "+err.Error()))
		return f, false
	}
	return f, true
}

// parseID reads :id. A malformed id cannot match any record, so it is
// answered like a missing one.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(apierror.MsgNoEncontrado))
		return uuid.Nil, false
	}
	return id, true
}

// responderError maps service errors to status codes. Anything unexpected is
// attached to the context for middleware.ErrorHandler to log and answer.
func responderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(apierror.MsgNoEncontrado))
	case errors.Is(err, service.ErrSinCambios):
		c.JSON(http.StatusBadRequest, apierror.New(service.ErrSinCambios.Error()))
	case errors.Is(err, service.ErrSolicitudInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}

// ── Uploads ──────────────────────────────────────────────────────────────────

// Subidas parses multipart uploads within a size limit.
type Subidas struct {
	MaxBytes int64
}

// formulario parses the multipart body. Writes 413 when the body exceeds
// MaxBytes and 400 when it is not a multipart form.
func (s Subidas) formulario(c *gin.Context) (*multipart.Form, bool) {
	if s.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo excede el tamaño permitido"))
			return nil, false
		}
		c.JSON(http.StatusBadRequest, apierror.New("Se esperaba un formulario multipart"))
		return nil, false
	}
	return form, true
}

// archivos opens every file sent under campo. The returned closer must be
// called once the service is done reading.
func (s Subidas) archivos(c *gin.Context, campo string) ([]service.ArchivoEntrante, []string, func(), bool) {
	form, ok := s.formulario(c)
	if !ok {
		return nil, nil, nil, false
	}
	headers := form.File[campo]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("No se recibió ningún archivo en '"+campo+"'"))
		return nil, nil, nil, false
	}

	abiertos := make([]multipart.File, 0, len(headers))
	cerrar := func() {
		for _, f := range abiertos {
			f.Close()
		}
	}
	entrantes := make([]service.ArchivoEntrante, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cerrar()
			c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo "+fh.Filename))
			return nil, nil, nil, false
		}
		abiertos = append(abiertos, f)
		entrantes = append(entrantes, service.ArchivoEntrante{
			Nombre:      fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Tamano:      fh.Size,
			Contenido:   f,
		})
	}
	return entrantes, form.Value["nombres"], cerrar, true
}

// archivo is archivos for endpoints that take exactly one file under "file".
func (s Subidas) archivo(c *gin.Context) (service.ArchivoEntrante, func(), bool) {
	entrantes, _, cerrar, ok := s.archivos(c, "file")
	if !ok {
		return service.ArchivoEntrante{}, nil, false
	}
	return entrantes[0], cerrar, true
}
