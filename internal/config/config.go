package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env         string
		Version     string
		Timezone    string
		CutoverHour int `mapstructure:"cutover_hour"`
	} `mapstructure:"app"`

	Line struct {
		ChannelSecret string `mapstructure:"channel_secret"`
		ChannelToken  string `mapstructure:"channel_token"`
	} `mapstructure:"line"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Redis struct {
		Addr string
	} `mapstructure:"redis"`

	Notify struct {
		WebhookURL string `mapstructure:"webhook_url"`
	} `mapstructure:"notify"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "Asia/Taipei"
	}
	if c.App.CutoverHour == 0 {
		c.App.CutoverHour = 6
	}
	return c, nil
}
