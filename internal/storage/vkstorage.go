package storage

import (
	"context"
	"fmt"

	"github.com/SevereCloud/vksdk/v2/api"
)

// VKStorage persists through the VK storage API (storage.get/storage.set),
// the production backend of the mini-app host.
type VKStorage struct {
	vk *api.VK
}

func NewVKStorage(vk *api.VK) *VKStorage {
	return &VKStorage{vk: vk}
}

func (s *VKStorage) Get(_ context.Context, key string) (string, error) {
	resp, err := s.vk.StorageGet(api.Params{"keys": key})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailure, err)
	}
	for _, item := range resp {
		if item.Key == key {
			return item.Value, nil
		}
	}
	return "", nil
}

func (s *VKStorage) Set(_ context.Context, key, value string) error {
	if _, err := s.vk.StorageSet(api.Params{"key": key, "value": value}); err != nil {
		return fmt.Errorf("%w: %v", ErrFailure, err)
	}
	return nil
}
