package tracer

import (
	"sort"
	"sync"

	"github.com/achilleasa/polaris-link/host"
)

// MemScene is a Scene backed by a map.
type MemScene struct {
	sync.RWMutex
	objects map[host.ObjectID]SceneObject
}

// Create an empty scene.
func NewMemScene() *MemScene {
	return &MemScene{
		objects: make(map[host.ObjectID]SceneObject),
	}
}

func (sc *MemScene) Clear() {
	sc.Lock()
	sc.objects = make(map[host.ObjectID]SceneObject)
	sc.Unlock()
}

func (sc *MemScene) Put(obj SceneObject) {
	sc.Lock()
	sc.objects[obj.ID] = obj
	sc.Unlock()
}

func (sc *MemScene) Remove(id host.ObjectID) {
	sc.Lock()
	delete(sc.objects, id)
	sc.Unlock()
}

func (sc *MemScene) Get(id host.ObjectID) (SceneObject, bool) {
	sc.RLock()
	defer sc.RUnlock()
	obj, ok := sc.objects[id]
	return obj, ok
}

func (sc *MemScene) Objects() []SceneObject {
	sc.RLock()
	list := make([]SceneObject, 0, len(sc.objects))
	for _, obj := range sc.objects {
		list = append(list, obj)
	}
	sc.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (sc *MemScene) Len() int {
	sc.RLock()
	defer sc.RUnlock()
	return len(sc.objects)
}
