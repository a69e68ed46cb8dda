package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	raven "github.com/getsentry/raven-go"
	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

const (
	definitionsPrefix = "definitions"
)

// Cache will be a generic wrapper around a Redis cache. It holds item
// definitions resolved through the per-miss remote fallback so later runs can
// skip the remote fetch. Everything here is best-effort, errors are logged and
// never treated as fatal by callers.
type Cache struct {
	*redis.Pool
}

// NewCache will create a new cache instance and the required Redis connection pool.
func NewCache(addr string) *Cache {
	return &Cache{&redis.Pool{
		MaxIdle:     3,
		MaxActive:   10,
		IdleTimeout: 240 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.DialURL(addr) },
	}}
}

// GetDefinition will attempt to read a previously cached definition for the
// given item hash. A nil definition with a nil error means a cache miss.
func (c *Cache) GetDefinition(hash uint) (*models.ItemDefinition, error) {

	conn := c.Get()
	defer conn.Close()

	key := fmt.Sprintf("%s:%d", definitionsPrefix, hash)
	reply, err := redis.String(conn.Do("GET", key))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	def := &models.ItemDefinition{}
	if err = json.Unmarshal([]byte(reply), def); err != nil {
		glg.Warnf("Couldn't unmarshal cached definition for hash %d: %s", hash, err.Error())
		return nil, err
	}

	return def, nil
}

// SaveDefinition will persist the given definition to the cache keyed by its
// item hash.
func (c *Cache) SaveDefinition(hash uint, def *models.ItemDefinition) error {

	conn := c.Get()
	defer conn.Close()

	defBytes, err := json.Marshal(def)
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("Couldn't marshal definition for hash %d: %s", hash, err.Error())
		return err
	}

	key := fmt.Sprintf("%s:%d", definitionsPrefix, hash)
	_, err = conn.Do("SET", key, string(defBytes))
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("Failed to cache definition: %s", err.Error())
	}

	return err
}
