package models

import "time"

// CountdownConfig 每次从就绪状态开始计时时，从界面控件上采集的配置
type CountdownConfig struct {
	TotalSeconds  int
	CountDownMode bool
	PlaySound     bool
}

// FromMinutes 按分钟构造配置
func FromMinutes(minutes int, countDown, playSound bool) CountdownConfig {
	if minutes < 0 {
		minutes = 0
	}
	return CountdownConfig{
		TotalSeconds:  minutes * 60,
		CountDownMode: countDown,
		PlaySound:     playSound,
	}
}

// Duration 总时长
func (c CountdownConfig) Duration() time.Duration {
	return time.Duration(c.TotalSeconds) * time.Second
}
