// Package main 提供 ndnsec 命令行入口
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ndn "github.com/named-data/go-ndn"
	"github.com/named-data/go-ndn/config"
	"github.com/named-data/go-ndn/pkg/security/identity"
	"github.com/named-data/go-ndn/pkg/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// 命令行结构
// ═══════════════════════════════════════════════════════════════════════════
//
// ndnsec <子命令> [选项] [参数]
//
//   create <身份名>    创建身份及其默认密钥与自签名证书
//   list               列出所有身份与密钥
//   dump <名字>        导出证书（身份名或证书名）
//   version            显示版本信息
//
// 公共选项（每个子命令都接受）：
//   -dir       数据目录（默认: ~/.ndn）
//   -config    配置文件路径（覆盖 -dir）
//   -password  私钥存储口令（为空则明文落盘）
//
// ═══════════════════════════════════════════════════════════════════════════

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printHelp()
		return nil
	}

	switch args[0] {
	case "create":
		return runCreate(args[1:])
	case "list":
		return runList(args[1:])
	case "dump":
		return runDump(args[1:])
	case "version", "-version", "--version":
		fmt.Println(ndn.VersionInfo())
		return nil
	case "help", "-help", "--help", "-h":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("未知子命令: %s", args[0])
	}
}

// commonFlags 注册所有子命令共享的选项
func commonFlags(fs *flag.FlagSet) (dir, configFile, password *string) {
	dir = fs.String("dir", defaultDataDir(), "数据目录")
	configFile = fs.String("config", "", "配置文件路径")
	password = fs.String("password", "", "私钥存储口令")
	return
}

// defaultDataDir 返回默认数据目录 ~/.ndn
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ndn"
	}
	return filepath.Join(home, ".ndn")
}

// loadConfig 按优先级构建配置：配置文件 > 数据目录默认布局
func loadConfig(dir, configFile, password string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	cfg := config.NewConfig()
	cfg.Storage = cfg.Storage.
		WithIdentityPath(filepath.Join(dir, "identity")).
		WithPrivateKeyPath(filepath.Join(dir, "keys")).
		WithPassword(password)
	return cfg, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// create
// ═══════════════════════════════════════════════════════════════════════════

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	dir, configFile, password := commonFlags(fs)
	keyType := fs.String("type", "", "密钥类型 (RSA/EC)，覆盖配置文件")
	rsaBits := fs.Int("rsa-bits", 0, "RSA 密钥位数，覆盖配置文件")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("用法: ndnsec create [选项] <身份名>")
	}

	identityName, err := types.ParseName(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("身份名无效: %w", err)
	}

	cfg, err := loadConfig(*dir, *configFile, *password)
	if err != nil {
		return err
	}
	if *keyType != "" {
		cfg.Key = cfg.Key.WithKeyType(*keyType)
	}
	if *rsaBits > 0 {
		cfg.Key = cfg.Key.WithRSABits(*rsaBits)
	}

	kc, err := ndn.NewKeyChain(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = kc.Close() }()

	keyName, err := kc.CreateIdentity(identityName)
	if err != nil {
		return err
	}
	certName, err := kc.IdentityManager().GetDefaultCertificateNameForIdentity(identityName)
	if err != nil {
		return err
	}

	fmt.Printf("身份:   %s\n", identityName)
	fmt.Printf("密钥:   %s\n", keyName)
	fmt.Printf("证书:   %s\n", certName)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// list
// ═══════════════════════════════════════════════════════════════════════════

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dir, configFile, password := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*dir, *configFile, *password)
	if err != nil {
		return err
	}
	store, err := identity.NewBasicIdentityStorage(cfg.Storage.IdentityPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	identities, err := store.ListIdentities()
	if err != nil {
		return err
	}
	if len(identities) == 0 {
		fmt.Println("（没有身份）")
		return nil
	}

	// 默认身份前缀 "*"，与 ndnsec 惯例一致
	defaultIdentity, _ := store.GetDefaultIdentity()

	for _, identityName := range identities {
		marker := " "
		if defaultIdentity != nil && identityName.Equal(defaultIdentity) {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, identityName)

		keys, err := store.ListKeysOfIdentity(identityName)
		if err != nil {
			return err
		}
		defaultKey, _ := store.GetDefaultKeyNameForIdentity(identityName)
		for _, keyName := range keys {
			keyMarker := " "
			if defaultKey != nil && keyName.Equal(defaultKey) {
				keyMarker = "*"
			}
			fmt.Printf("  %s %s\n", keyMarker, keyName)
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// dump
// ═══════════════════════════════════════════════════════════════════════════

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	dir, configFile, password := commonFlags(fs)
	base64Only := fs.Bool("base64", false, "仅输出 base64 编码的证书线路字节")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("用法: ndnsec dump [选项] <身份名|证书名>")
	}

	name, err := types.ParseName(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("名字无效: %w", err)
	}

	cfg, err := loadConfig(*dir, *configFile, *password)
	if err != nil {
		return err
	}
	store, err := identity.NewBasicIdentityStorage(cfg.Storage.IdentityPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	certName, err := resolveCertificateName(store, name)
	if err != nil {
		return err
	}
	cert, err := store.GetCertificate(certName, true)
	if err != nil {
		return err
	}

	enc, err := cert.WireEncode(nil)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(enc.Wire())

	if *base64Only {
		fmt.Println(encoded)
		return nil
	}

	fmt.Printf("证书:   %s\n", cert.Name())
	fmt.Printf("公钥:   %s\n", cert.PublicKeyName())
	fmt.Printf("生效:   %s\n", cert.NotBefore().Time().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("失效:   %s\n", cert.NotAfter().Time().UTC().Format("2006-01-02 15:04:05 UTC"))
	for _, desc := range cert.SubjectDescriptions() {
		fmt.Printf("主体:   %s\n", desc.Value)
	}
	fmt.Println()
	fmt.Println(encoded)
	return nil
}

// resolveCertificateName 把身份名解析为其默认证书名
//
// 参数已经是证书名（或本地不存在的身份）时原样返回，由
// 后续查询给出准确错误。
func resolveCertificateName(store *identity.BasicIdentityStorage, name *types.Name) (*types.Name, error) {
	exists, err := store.DoesIdentityExist(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return name, nil
	}
	keyName, err := store.GetDefaultKeyNameForIdentity(name)
	if err != nil {
		return nil, err
	}
	return store.GetDefaultCertificateNameForKey(keyName)
}

// ═══════════════════════════════════════════════════════════════════════════
// 帮助信息
// ═══════════════════════════════════════════════════════════════════════════

func printHelp() {
	fmt.Println("ndnsec - NDN 身份与证书管理工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  ndnsec <子命令> [选项] [参数]")
	fmt.Println()
	fmt.Println("子命令:")
	fmt.Println("  create <身份名>   创建身份及其默认密钥与自签名证书")
	fmt.Println("  list              列出所有身份与密钥（* 为默认项）")
	fmt.Println("  dump <名字>       导出证书（接受身份名或证书名）")
	fmt.Println("  version           显示版本信息")
	fmt.Println()
	fmt.Println("公共选项:")
	fmt.Println("  -dir <路径>       数据目录（默认: ~/.ndn）")
	fmt.Println("  -config <路径>    配置文件路径（覆盖 -dir）")
	fmt.Println("  -password <口令>  私钥存储口令（为空则明文落盘）")
	fmt.Println()
	fmt.Println("使用示例:")
	fmt.Println()
	fmt.Println("  # 创建身份（RSA 2048，默认）")
	fmt.Println("  ndnsec create /alice")
	fmt.Println()
	fmt.Println("  # 创建 EC 身份")
	fmt.Println("  ndnsec create -type EC /alice")
	fmt.Println()
	fmt.Println("  # 列出本机身份")
	fmt.Println("  ndnsec list")
	fmt.Println()
	fmt.Println("  # 导出身份的默认证书")
	fmt.Println("  ndnsec dump /alice")
	fmt.Println()
	fmt.Println("  # 仅输出 base64 线路字节（便于分发）")
	fmt.Println("  ndnsec dump -base64 /alice/KEY/ksk-.../ID-CERT/...")
	fmt.Println()
	fmt.Println("配置文件示例 (config.json):")
	fmt.Println()
	fmt.Println(`  {`)
	fmt.Println(`    "key": {`)
	fmt.Println(`      "key_type": "RSA",`)
	fmt.Println(`      "rsa_bits": 2048`)
	fmt.Println(`    },`)
	fmt.Println(`    "storage": {`)
	fmt.Println(`      "identity_path": "~/.ndn/identity",`)
	fmt.Println(`      "private_key_path": "~/.ndn/keys"`)
	fmt.Println(`    },`)
	fmt.Println(`    "policy": {`)
	fmt.Println(`      "mode": "self-verify",`)
	fmt.Println(`      "max_verify_steps": 8`)
	fmt.Println(`    }`)
	fmt.Println(`  }`)
}
