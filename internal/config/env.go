package config

type DBDriver string

const (
	DriverPostgres DBDriver = "postgres"
	DriverSQLite   DBDriver = "sqlite"
)

type Database struct {
	Driver   DBDriver `mapstructure:"DATABASE_DRIVER" default:"postgres"`
	Host     string   `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int      `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string   `mapstructure:"DATABASE_NAME" default:"lims"`
	User     string   `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string   `mapstructure:"DATABASE_PASSWORD" default:"lims"`
	// sqlite 模式下的数据库文件路径
	Path string `mapstructure:"DATABASE_PATH" default:"lims.db"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
	// 关闭后生命周期事件仅写日志，不做进程间广播
	Enable bool `mapstructure:"REDIS_ENABLE" default:"true"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"mbl"`
	Service  string `mapstructure:"SERVICE" default:"lims"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Auth struct {
	// JWT 签名密钥，生产环境必须覆盖
	JWTSecret string `mapstructure:"JWT_SECRET" default:"dev-secret-change-me"`
	// token 有效期（小时）
	TokenTTL int `mapstructure:"TOKEN_TTL" default:"12"`
}

type Renderer struct {
	// 外部 PDF 渲染服务地址，为空时降级返回结构化单据
	Addr    string `mapstructure:"RENDERER_ADDR"`
	Timeout int    `mapstructure:"RENDERER_TIMEOUT" default:"15"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./logs/lims.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}
