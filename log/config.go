package log

// Config 日志配置
type Config struct {
	Level  string     `mapstructure:"level" json:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string     `mapstructure:"format" json:"format" validate:"omitempty,oneof=console json"`
	File   FileConfig `mapstructure:"file" json:"file"`
}

// FileConfig 日志文件配置，Filename 为空时不写文件
type FileConfig struct {
	Filepath   string     `mapstructure:"filepath" json:"filepath"`
	Filename   string     `mapstructure:"filename" json:"filename"`
	FileExt    string     `mapstructure:"file_ext" json:"file_ext"`
	RotateMode RotateMode `mapstructure:"rotate_mode" json:"rotate_mode" validate:"omitempty,oneof=time size"`

	// 按时间轮转
	MaxAgeHours       int `mapstructure:"max_age_hours" json:"max_age_hours" validate:"gte=0"`
	RotationTimeHours int `mapstructure:"rotation_time_hours" json:"rotation_time_hours" validate:"gte=0"`

	// 按大小轮转
	MaxSize    int  `mapstructure:"max_size" json:"max_size" validate:"gte=0"`
	MaxBackups int  `mapstructure:"max_backups" json:"max_backups" validate:"gte=0"`
	MaxAgeDays int  `mapstructure:"max_age_days" json:"max_age_days" validate:"gte=0"`
	Compress   bool `mapstructure:"compress" json:"compress"`
}

// withDefaults 填充未设置的文件配置
func (c FileConfig) withDefaults() FileConfig {
	if c.Filepath == "" {
		c.Filepath = "log"
	}
	if c.FileExt == "" {
		c.FileExt = "log"
	}
	if c.RotateMode == "" {
		c.RotateMode = RotateModeSize
	}
	if c.MaxAgeHours == 0 {
		c.MaxAgeHours = 24
	}
	if c.RotationTimeHours == 0 {
		c.RotationTimeHours = 1
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
	return c
}
