package ndn

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/named-data/go-ndn/config"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/lib/log"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/security/identity"
	"github.com/named-data/go-ndn/pkg/security/policy"
	"github.com/named-data/go-ndn/pkg/types"

	// 注册默认线路格式
	_ "github.com/named-data/go-ndn/pkg/encoding"
)

var logger = log.Logger("ndn/keychain")

// CertificateFetcher 取回缺失证书的钩子
//
// 策略返回续接请求时由驱动循环调用：实现方负责发出
// req.Interest 指向的请求，取回后调用 req.OnData 重入验证，
// 超时调用 req.OnTimeout。网络交互完全在本库之外。
type CertificateFetcher func(req *interfaces.ValidationRequest) error

// KeyChain 签名与验证的门面
//
// 聚合身份管理器与验证策略：签名侧解析默认指针并委托
// 身份管理器；验证侧驱动策略状态机直到终态，递归深度
// 由配置的步数上限约束。
//
// 实例不做内部加锁，并发使用需外部同步。
type KeyChain struct {
	identityManager *identity.Manager
	policyManager   interfaces.PolicyManager
	identityStorage interfaces.IdentityStorage

	maxVerifySteps int
	fetcher        CertificateFetcher
	closed         atomic.Bool

	// 由 NewKeyChain 构建存储时持有，Close 时统一释放
	closers []io.Closer
}

// NewKeyChain 按配置创建钥匙链
//
// cfg 为 nil 时使用默认配置（内存存储、自验证策略）。
func NewKeyChain(cfg *config.Config, opts ...Option) (*KeyChain, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	identityStorage, err := newIdentityStorage(cfg)
	if err != nil {
		return nil, err
	}
	privateKeyStorage, err := newPrivateKeyStorage(cfg)
	if err != nil {
		_ = identityStorage.Close()
		return nil, err
	}

	kc := &KeyChain{
		identityManager: identity.NewManager(identityStorage, privateKeyStorage,
			identity.WithDefaultKeyParams(defaultKeyParams(cfg))),
		policyManager:   newPolicyManager(cfg, identityStorage),
		identityStorage: identityStorage,
		maxVerifySteps:  cfg.Policy.MaxVerifySteps,
		closers:         []io.Closer{identityStorage},
	}
	for _, opt := range opts {
		opt(kc)
	}
	return kc, nil
}

// NewKeyChainWith 从现成的组件创建钥匙链
//
// 存储的生命周期归调用方所有，Close 不会释放它们。
func NewKeyChainWith(identityManager *identity.Manager,
	identityStorage interfaces.IdentityStorage,
	policyManager interfaces.PolicyManager, opts ...Option) *KeyChain {

	kc := &KeyChain{
		identityManager: identityManager,
		policyManager:   policyManager,
		identityStorage: identityStorage,
		maxVerifySteps:  config.DefaultPolicyConfig().MaxVerifySteps,
	}
	for _, opt := range opts {
		opt(kc)
	}
	return kc
}

func newIdentityStorage(cfg *config.Config) (interfaces.IdentityStorage, error) {
	if cfg.Storage.IdentityPath == "" {
		return identity.NewMemoryIdentityStorage(), nil
	}
	return identity.NewBasicIdentityStorage(cfg.Storage.IdentityPath)
}

func newPrivateKeyStorage(cfg *config.Config) (interfaces.PrivateKeyStorage, error) {
	if cfg.Storage.PrivateKeyPath == "" {
		return identity.NewMemoryPrivateKeyStorage(), nil
	}
	var password []byte
	if cfg.Storage.Password != "" {
		password = []byte(cfg.Storage.Password)
	}
	return identity.NewFilePrivateKeyStorage(cfg.Storage.PrivateKeyPath, password)
}

func newPolicyManager(cfg *config.Config, identityStorage interfaces.IdentityStorage) interfaces.PolicyManager {
	if cfg.Policy.Mode == "no-verify" {
		return policy.NewNoVerifyPolicyManager()
	}
	return policy.NewSelfVerifyPolicyManager(identityStorage, nil)
}

func defaultKeyParams(cfg *config.Config) (types.KeyType, int) {
	if cfg.Key.KeyType == "EC" {
		return types.KeyTypeEC, 256
	}
	return types.KeyTypeRSA, cfg.Key.RSABits
}

// ============================================================================
//                              访问器
// ============================================================================

// IdentityManager 返回底层身份管理器
func (kc *KeyChain) IdentityManager() *identity.Manager { return kc.identityManager }

// PolicyManager 返回底层验证策略
func (kc *KeyChain) PolicyManager() interfaces.PolicyManager { return kc.policyManager }

// ============================================================================
//                              身份与签名
// ============================================================================

// CreateIdentity 创建身份及其默认密钥与自签名证书
//
// 尚无默认身份时，新身份同时成为默认身份，这样创建后即可
// 直接用 SignByIdentity(..., nil) 签名。
func (kc *KeyChain) CreateIdentity(identityName *types.Name) (*types.Name, error) {
	if kc.closed.Load() {
		return nil, ErrClosed
	}
	keyName, err := kc.identityManager.CreateIdentity(identityName)
	if err != nil {
		return nil, err
	}
	if _, err := kc.identityManager.GetDefaultIdentity(); err != nil {
		if !errors.Is(err, security.ErrNotFound) {
			return nil, err
		}
		if err := kc.identityManager.SetDefaultIdentity(identityName); err != nil {
			return nil, err
		}
	}
	return keyName, nil
}

// SignByCertificate 用指定证书签名 Data
func (kc *KeyChain) SignByCertificate(data *security.Data, certificateName *types.Name) error {
	if kc.closed.Load() {
		return ErrClosed
	}
	if !kc.policyManager.CheckSigningPolicy(data.Name(), certificateName) {
		return fmt.Errorf("%w: certificate %q may not sign %q",
			security.ErrUnsupported, certificateName, data.Name())
	}
	return kc.identityManager.SignDataByCertificate(data, certificateName, nil)
}

// SignByIdentity 用身份的默认证书签名 Data
//
// identityName 为 nil 或空时依次尝试策略推断与默认身份。
func (kc *KeyChain) SignByIdentity(data *security.Data, identityName *types.Name) error {
	certificateName, err := kc.certificateNameForIdentity(data.Name(), identityName)
	if err != nil {
		return err
	}
	return kc.SignByCertificate(data, certificateName)
}

// SignInterestByCertificate 用指定证书签名 Interest
func (kc *KeyChain) SignInterestByCertificate(interest *security.Interest, certificateName *types.Name) error {
	if kc.closed.Load() {
		return ErrClosed
	}
	if !kc.policyManager.CheckSigningPolicy(interest.Name(), certificateName) {
		return fmt.Errorf("%w: certificate %q may not sign %q",
			security.ErrUnsupported, certificateName, interest.Name())
	}
	return kc.identityManager.SignInterestByCertificate(interest, certificateName, nil)
}

// SignInterestByIdentity 用身份的默认证书签名 Interest
func (kc *KeyChain) SignInterestByIdentity(interest *security.Interest, identityName *types.Name) error {
	certificateName, err := kc.certificateNameForIdentity(interest.Name(), identityName)
	if err != nil {
		return err
	}
	return kc.SignInterestByCertificate(interest, certificateName)
}

// certificateNameForIdentity 解析签名用的证书名
func (kc *KeyChain) certificateNameForIdentity(messageName, identityName *types.Name) (*types.Name, error) {
	if kc.closed.Load() {
		return nil, ErrClosed
	}

	if identityName == nil || identityName.IsEmpty() {
		inferred := kc.policyManager.InferSigningIdentity(messageName)
		if inferred != nil && !inferred.IsEmpty() {
			identityName = inferred
		}
	}
	if identityName == nil || identityName.IsEmpty() {
		return kc.identityManager.GetDefaultCertificateName()
	}
	return kc.identityManager.GetDefaultCertificateNameForIdentity(identityName)
}

// ============================================================================
//                              验证驱动循环
// ============================================================================

// VerifyData 验证 Data，驱动策略状态机直到终态
//
// 策略返回续接请求时经 CertificateFetcher 取回数据并重入；
// 重入深度超过配置上限判为验证失败（回调，不是错误）。
// 结构性错误（不支持的方案、存储故障）以 error 返回，
// 此时不调用任何回调。
func (kc *KeyChain) VerifyData(data *security.Data,
	onVerified interfaces.OnDataVerified, onVerifyFailed interfaces.OnDataVerifyFailed) error {

	if kc.closed.Load() {
		return ErrClosed
	}
	if kc.policyManager == nil {
		return ErrNoPolicy
	}

	name := data.Name()
	if !kc.policyManager.RequireVerify(name) {
		if kc.policyManager.SkipVerifyAndTrust(name) {
			onVerified(data)
			return nil
		}
		onVerifyFailed(data, ReasonPolicyRefused)
		return nil
	}

	req, err := kc.policyManager.CheckVerificationPolicy(data, 0, onVerified, onVerifyFailed)
	if err != nil {
		return err
	}
	return kc.continueValidation(req, func(reason string) { onVerifyFailed(data, reason) })
}

// VerifyInterest 验证签名 Interest，驱动策略状态机直到终态
func (kc *KeyChain) VerifyInterest(interest *security.Interest,
	onVerified interfaces.OnInterestVerified, onVerifyFailed interfaces.OnInterestVerifyFailed) error {

	if kc.closed.Load() {
		return ErrClosed
	}
	if kc.policyManager == nil {
		return ErrNoPolicy
	}

	name := interest.Name()
	if !kc.policyManager.RequireVerify(name) {
		if kc.policyManager.SkipVerifyAndTrust(name) {
			onVerified(interest)
			return nil
		}
		onVerifyFailed(interest, ReasonPolicyRefused)
		return nil
	}

	req, err := kc.policyManager.CheckInterestVerificationPolicy(interest, 0, onVerified, onVerifyFailed)
	if err != nil {
		return err
	}
	return kc.continueValidation(req, func(reason string) { onVerifyFailed(interest, reason) })
}

// continueValidation 处理策略返回的非终态续接请求
//
// 请求的 StepCount 已经加一；超过上限或没有取回钩子时
// 走失败回调。取回钩子内部的重入仍会经过策略，深度由
// 每次返回的 StepCount 累计约束。
func (kc *KeyChain) continueValidation(req *interfaces.ValidationRequest, fail func(reason string)) error {
	if req == nil {
		return nil
	}
	if req.StepCount > kc.maxVerifySteps {
		logger.Debug("validation chain too deep", "steps", req.StepCount)
		fail(ReasonMaxStepsExceeded)
		return nil
	}
	if kc.fetcher == nil {
		fail(ReasonNoFetcher)
		return nil
	}
	return kc.fetcher(req)
}

// ============================================================================
//                              生命周期
// ============================================================================

// Close 释放钥匙链持有的存储资源
//
// 幂等；只释放 NewKeyChain 自建的存储。
func (kc *KeyChain) Close() error {
	if !kc.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	for _, c := range kc.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
