package storage

import (
	"fmt"

	"github.com/reusedev/koi/config"
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/storage/ali"
	"github.com/reusedev/koi/internal/modules/storage/local"
)

// Store persists generated layer images and returns where they ended up.
type Store interface {
	Save(name string, data []byte) (string, error)
}

func New(cfg *config.Config) (Store, error) {
	switch consts.StorageSupplier(cfg.StorageSupplier) {
	case consts.StorageLocal:
		return local.New(cfg.LocalStorage.Directory), nil
	case consts.StorageAliOss:
		ali.InitOSS(cfg.AliOss)
		return ali.OssClient, nil
	default:
		return nil, fmt.Errorf("unknown storage supplier: %s", cfg.StorageSupplier)
	}
}
