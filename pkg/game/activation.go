package game

// ActivationFlag 区域 B 的激活开关，供协调器轮询
type ActivationFlag struct {
	active bool
}

// Activate 置为激活
func (f *ActivationFlag) Activate() { f.active = true }

// IsActive 返回是否已激活
func (f *ActivationFlag) IsActive() bool { return f != nil && f.active }
