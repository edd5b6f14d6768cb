package pwa

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/pkg/errors"
)

// WorkerInput parameterizes the service worker script.
type WorkerInput struct {
	CacheVersion string
	PrecacheURLs []string
	OfflinePath  string
	AppName      string
}

// APIPrefix marks requests the worker never answers from or stores in the
// cache.
const APIPrefix = "/api/"

// CacheName is the versioned cache the worker owns.
func CacheName(version string) string {
	return "webapp-v" + version
}

// js renders v as a JavaScript literal. encoding/json escapes <, > and &,
// so the result is also safe inside an HTML script element.
func js(v any) (string, error) {
	b, err := json.Marshal(v)

	return string(b), err
}

var workerTemplate = template.Must(template.New("sw.js").Funcs(template.FuncMap{"js": js}).Parse( //nolint:gochecknoglobals
	`const CACHE_NAME = {{js .CacheName}};
const OFFLINE_URL = {{js .OfflinePath}};
const urlsToCache = {{js .PrecacheURLs}};
const API_PREFIX = {{js .APIPrefix}};

self.addEventListener('install', function (event) {
  event.waitUntil(
    caches.open(CACHE_NAME).then(function (cache) {
      return cache.addAll(urlsToCache);
    })
  );
});

self.addEventListener('fetch', function (event) {
  var request = event.request;
  var url = new URL(request.url);

  if (request.method !== 'GET' || url.origin !== self.location.origin || url.pathname.indexOf(API_PREFIX) === 0) {
    return;
  }

  if (request.mode === 'navigate') {
    event.respondWith(
      fetch(request).catch(function () {
        return caches.match(request).then(function (cached) {
          return cached || caches.match(OFFLINE_URL);
        });
      })
    );
    return;
  }

  event.respondWith(
    caches.match(request).then(function (cached) {
      if (cached) {
        return cached;
      }

      return fetch(request).then(function (response) {
        if (!response || response.status !== 200 || response.type !== 'basic') {
          return response;
        }

        var copy = response.clone();
        caches.open(CACHE_NAME).then(function (cache) {
          cache.put(request, copy);
        });

        return response;
      });
    })
  );
});

self.addEventListener('activate', function (event) {
  event.waitUntil(
    caches.keys().then(function (names) {
      return Promise.all(names.map(function (name) {
        if (name !== CACHE_NAME) {
          return caches.delete(name);
        }
      }));
    })
  );
});

self.addEventListener('sync', function (event) {
  if (event.tag === 'background-sync') {
    event.waitUntil(Promise.resolve());
  }
});

self.addEventListener('push', function (event) {
  var options = {
    body: event.data ? event.data.text() : 'New content available!',
    icon: {{js .Icon}},
    badge: {{js .Badge}},
    data: { dateOfArrival: Date.now(), primaryKey: 1 },
    actions: [
      { action: 'explore', title: 'Read More' },
      { action: 'close', title: 'Close' }
    ]
  };

  event.waitUntil(self.registration.showNotification({{js .AppName}}, options));
});

self.addEventListener('notificationclick', function (event) {
  event.notification.close();

  if (event.action === 'explore') {
    event.waitUntil(clients.openWindow('/'));
  }
});
`))

// GenerateServiceWorker renders the worker script. Only the cache name, the
// precache list and the labels vary; the caching policy is fixed. Non-GET
// and API requests bypass the worker, navigations are network first and
// other assets cache first.
func GenerateServiceWorker(in WorkerInput) ([]byte, error) {
	urls := in.PrecacheURLs
	if urls == nil {
		urls = []string{}
	}

	var buf bytes.Buffer

	err := workerTemplate.Execute(&buf, struct {
		CacheName    string
		OfflinePath  string
		PrecacheURLs []string
		AppName      string
		APIPrefix    string
		Icon         string
		Badge        string
	}{
		CacheName:    CacheName(in.CacheVersion),
		OfflinePath:  in.OfflinePath,
		PrecacheURLs: urls,
		AppName:      in.AppName,
		APIPrefix:    APIPrefix,
		Icon:         IconPath(192),
		Badge:        IconPath(72),
	})
	if err != nil {
		return nil, errors.Wrap(err, "render service worker")
	}

	return buf.Bytes(), nil
}
