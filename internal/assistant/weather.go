package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// 天气服务不可用时使用的默认描述
const WeatherFallback = "Sunny, 29°C"

type WeatherClient struct {
	httpClient *resty.Client
	latitude   float64
	longitude  float64
}

func NewWeatherClient(baseURL string, latitude, longitude float64, timeout time.Duration) *WeatherClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &WeatherClient{
		httpClient: client,
		latitude:   latitude,
		longitude:  longitude,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current 返回形如 "Sunny, 29°C" 的天气描述，请求失败时返回默认描述
func (c *WeatherClient) Current(ctx context.Context) string {
	var result forecastResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(c.latitude, 'f', 4, 64),
			"longitude": strconv.FormatFloat(c.longitude, 'f', 4, 64),
			"current":   "temperature_2m,weather_code",
		}).
		SetResult(&result).
		Get("/v1/forecast")
	if err != nil {
		slog.Warn("获取天气失败", "error", err)
		return WeatherFallback
	}
	if resp.IsError() {
		slog.Warn("天气服务返回错误", "status", resp.StatusCode())
		return WeatherFallback
	}

	return fmt.Sprintf("%s, %d°C", describeWeatherCode(result.Current.WeatherCode), int(math.Round(result.Current.Temperature)))
}

// describeWeatherCode 把 WMO 天气代码转换为简短描述
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Sunny"
	case code <= 2:
		return "Partly Cloudy"
	case code == 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return "Rainy"
	case code >= 95:
		return "Stormy"
	default:
		return "Cloudy"
	}
}
