// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Key.RSABits = 4096
//	cfg.Storage.Path = "/var/lib/ndn"
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 go-ndn 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Key: 密钥生成参数
//   - Storage: 身份与私钥的落盘位置
//   - Policy: 验证策略参数
type Config struct {
	// Key 密钥配置
	Key KeyConfig `json:"key"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage"`

	// Policy 验证策略配置
	Policy PolicyConfig `json:"policy"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
// 可以通过修改字段或 With* 函数来定制配置。
func NewConfig() *Config {
	return &Config{
		Key:     DefaultKeyConfig(),
		Storage: DefaultStorageConfig(),
		Policy:  DefaultPolicyConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	if err := c.Key.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return nil
}
