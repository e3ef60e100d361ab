package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.etcd.io/bbolt"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

var (
	bucketClasses  = []byte("classes")
	bucketPackages = []byte("packages")
	bucketMeta     = []byte("meta")
	keyBuildInfo   = []byte("build_info")

	allBuckets = [][]byte{bucketClasses, bucketPackages, bucketMeta}
)

// BoltStore persists the documentation model for the external assembler. Class models
// are keyed "<package>/<class>" so a package's classes sit together in key order.
type BoltStore struct {
	db *bbolt.DB
}

var _ port.ModelStore = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func classKey(pkg, name string) []byte {
	return []byte(pkg + "/" + name)
}

// Reset drops the model of the previous build. Schema info in the meta bucket survives.
func (s *BoltStore) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketClasses, bucketPackages} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Delete(keyBuildInfo)
	})
}

func (s *BoltStore) PutClass(model domain.ClassModel) error {
	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClasses).Put(classKey(model.Package, model.Name), data)
	})
}

func (s *BoltStore) GetClass(pkg, name string) (domain.ClassModel, error) {
	var model domain.ClassModel
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClasses).Get(classKey(pkg, name))
		if data == nil {
			return fmt.Errorf("class %s.%s: %w", pkg, name, domain.ErrNotFound)
		}
		return json.Unmarshal(data, &model)
	})
	return model, err
}

// ListClasses returns the class names stored for a package, sorted.
func (s *BoltStore) ListClasses(pkg string) ([]string, error) {
	var names []string
	prefix := []byte(pkg + "/")
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketClasses).Cursor()
		for k, _ := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, _ = c.Next() {
			names = append(names, string(k[len(prefix):]))
		}
		return nil
	})
	sort.Strings(names)
	return names, err
}

func (s *BoltStore) PutPackage(index domain.PackageIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPackages).Put([]byte(index.Package), data)
	})
}

func (s *BoltStore) GetPackage(pkg string) (domain.PackageIndex, error) {
	var index domain.PackageIndex
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPackages).Get([]byte(pkg))
		if data == nil {
			return fmt.Errorf("package %s: %w", pkg, domain.ErrNotFound)
		}
		return json.Unmarshal(data, &index)
	})
	return index, err
}

func (s *BoltStore) PutBuildInfo(info domain.BuildInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyBuildInfo, data)
	})
}

func (s *BoltStore) GetBuildInfo() (domain.BuildInfo, error) {
	var info domain.BuildInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyBuildInfo)
		if data == nil {
			return fmt.Errorf("build info: %w", domain.ErrNotFound)
		}
		return json.Unmarshal(data, &info)
	})
	return info, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
