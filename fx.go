package ndn

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/named-data/go-ndn/config"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security/identity"
)

// Module 组装钥匙链的 Fx 模块
//
// 按配置提供身份存储、私钥存储、身份管理器、验证策略与
// KeyChain。嵌入宿主应用时使用；非 Fx 场景直接调用
// NewKeyChain 即可。
//
//	app := fx.New(
//	    ndn.Module(cfg),
//	    fx.Invoke(func(kc *ndn.KeyChain) { ... }),
//	)
func Module(cfg *config.Config) fx.Option {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			provideIdentityStorage,
			providePrivateKeyStorage,
			provideIdentityManager,
			providePolicyManager,
			provideKeyChain,
		),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
}

func provideIdentityStorage(lc fx.Lifecycle, cfg *config.Config) (interfaces.IdentityStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	storage, err := newIdentityStorage(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return storage.Close()
		},
	})
	return storage, nil
}

func providePrivateKeyStorage(cfg *config.Config) (interfaces.PrivateKeyStorage, error) {
	return newPrivateKeyStorage(cfg)
}

func provideIdentityManager(identityStorage interfaces.IdentityStorage,
	privateKeyStorage interfaces.PrivateKeyStorage, cfg *config.Config) *identity.Manager {
	return identity.NewManager(identityStorage, privateKeyStorage,
		identity.WithDefaultKeyParams(defaultKeyParams(cfg)))
}

func providePolicyManager(cfg *config.Config, identityStorage interfaces.IdentityStorage) interfaces.PolicyManager {
	return newPolicyManager(cfg, identityStorage)
}

func provideKeyChain(identityManager *identity.Manager,
	identityStorage interfaces.IdentityStorage,
	policyManager interfaces.PolicyManager, cfg *config.Config) *KeyChain {
	return NewKeyChainWith(identityManager, identityStorage, policyManager,
		WithMaxVerifySteps(cfg.Policy.MaxVerifySteps))
}
