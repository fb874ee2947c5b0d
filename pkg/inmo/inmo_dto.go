package inmo

// 房产发布平台 (核心后端) 的数据契约
// 字段名与平台 API 的西语线上格式保持一致，勿随意改动

// ==================== 位置 ====================

// LocationPayload 创建位置子资源的请求体
// POST /propiedad_ubicacion
type LocationPayload struct {
	PaisNombre         string   `json:"paisNombre"`
	DepartamentoNombre string   `json:"departamentoNombre"`
	CiudadNombre       string   `json:"ciudadNombre"`
	Direccion          string   `json:"direccion"`
	Barrio             string   `json:"barrio"`
	Latitud            string   `json:"latitud"`
	Longitud           string   `json:"longitud"`
	CodigoPostal       *string  `json:"codigo_postal"`
}

// LocationResult 位置创建响应
type LocationResult struct {
	IDUbicacion int64 `json:"id_ubicacion"`
}

// ==================== 房产 ====================

// PropertyPayload 创建/更新房产的请求体
// POST /propiedades | PUT /propiedades/:id
// 空可选字段必须显式发送 null，平台端以此区分"未填"与"0"
type PropertyPayload struct {
	IDUbicacion        int64    `json:"id_ubicacion"`
	IDInmuebleTipo     string   `json:"id_inmueble_tipo"`
	Titulo             string   `json:"titulo"`
	Descripcion        string   `json:"descripcion"`
	NumeroHabitaciones *int     `json:"numero_habitaciones"`
	NumeroBanos        *int     `json:"numero_banos"`
	SuperficieTotal    int      `json:"superficie_total"`
	PrecioVenta        *float64 `json:"precio_venta"`
	PrecioAlquiler     *float64 `json:"precio_alquiler"`
}

// PropertyResult 房产创建响应
type PropertyResult struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// PropertyDetail 房产详情 (编辑模式回填)
// GET /propiedades/:id
type PropertyDetail struct {
	ID                 string   `json:"id"`
	Titulo             string   `json:"titulo"`
	Descripcion        string   `json:"descripcion"`
	IDInmuebleTipo     string   `json:"id_inmueble_tipo"`
	IDCiudad           string   `json:"id_ciudad"`
	IDDepartamento     string   `json:"id_departamento"`
	IDUbicacion        *int64   `json:"id_ubicacion"`
	PrecioVenta        *float64 `json:"precio_venta"`
	PrecioAlquiler     *float64 `json:"precio_alquiler"`
	Direccion          string   `json:"direccion"`
	Barrio             string   `json:"barrio"`
	CodigoPostal       string   `json:"codigo_postal"`
	NumeroHabitaciones *int     `json:"numero_habitaciones"`
	NumeroBanos        *int     `json:"numero_banos"`
	SuperficieTotal    *float64 `json:"superficie_total"`
	Latitud            *float64 `json:"latitud"`
	Longitud           *float64 `json:"longitud"`
	Pais               string   `json:"pais"`
	Departamento       string   `json:"departamento"`
	Ciudad             string   `json:"ciudad"`
	Imagenes           []string `json:"imagenes"`
}

// ==================== 目录 ====================

// CatalogEntry 静态目录条目 (房产类型/省份)
type CatalogEntry struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// CityEntry 城市目录条目，带所属省份外键
type CityEntry struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	IDDepartamento string `json:"id_departamento"`
}

// ==================== 认证 ====================

// TokenPair 平台令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
