package dto

// ClienteProfileRequest formulario del perfil del cliente. Los montos llegan como texto
// y se convierten a decimal en el caso de uso.
type ClienteProfileRequest struct {
	Nombre            string   `form:"nombre" label:"Nombre" validate:"required,max=100"`
	Apellido          string   `form:"apellido" label:"Apellido" validate:"omitempty,max=100"`
	Telefono          string   `form:"telefono" label:"Teléfono" validate:"omitempty,max=30"`
	FechaNacimiento   string   `form:"fechaNacimiento" label:"Fecha de nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Direccion         string   `form:"direccion" label:"Dirección" validate:"omitempty,max=200"`
	Ciudad            string   `form:"ciudad" label:"Ciudad" validate:"omitempty,max=100"`
	Pais              string   `form:"pais" label:"País" validate:"omitempty,max=100"`
	Ocupacion         string   `form:"ocupacion" label:"Ocupación" validate:"omitempty,max=100"`
	IngresosMensuales string   `form:"ingresosMensuales" label:"Ingresos mensuales" validate:"omitempty,numeric"`
	GastosMensuales   string   `form:"gastosMensuales" label:"Gastos mensuales" validate:"omitempty,numeric"`
	Patrimonio        string   `form:"patrimonio" label:"Patrimonio" validate:"omitempty,numeric"`
	PerfilRiesgo      string   `form:"perfilRiesgo" label:"Perfil de riesgo" validate:"omitempty,oneof=conservador moderado agresivo"`
	Objetivos         []string `form:"objetivos" label:"Objetivos" validate:"omitempty,max=10,dive,max=100"`
}

// AsesorProfileRequest formulario del perfil del asesor.
type AsesorProfileRequest struct {
	Nombre           string `form:"nombre" label:"Nombre" validate:"required,max=100"`
	Apellido         string `form:"apellido" label:"Apellido" validate:"omitempty,max=100"`
	Telefono         string `form:"telefono" label:"Teléfono" validate:"omitempty,max=30"`
	Especialidad     string `form:"especialidad" label:"Especialidad" validate:"omitempty,max=100"`
	ExperienciaAnios int    `form:"experienciaAnios" label:"Años de experiencia" validate:"min=0,max=70"`
	Descripcion      string `form:"descripcion" label:"Descripción" validate:"omitempty,max=2000"`
	TarifaHora       string `form:"tarifaHora" label:"Tarifa por hora" validate:"omitempty,numeric"`
}
