package systems

import (
	"log"
	"math"

	"github.com/gonewx/planetwave/pkg/components"
	"github.com/gonewx/planetwave/pkg/ecs"
	"github.com/gonewx/planetwave/pkg/game"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeReach cp.CollisionType = iota + 1
	collisionTypeHull
	collisionTypeObjective
)

// sensorBody 一个活跃实例在物理空间中的表示
type sensorBody struct {
	body  *cp.Body
	reach *cp.Shape // 半径 = 攻击射程，接触型原型没有
	hull  *cp.Shape // 半径 = 接触半径
	seq   int       // 创建时的出生序号，用于识别被复用的实例
}

// RangeSensorSystem 用物理空间的传感器形状产生射程与接触信号
//
// 每个活跃实例带两个传感器圆：射程圆和本体圆；每个核心是一个静态圆。
// Step 期间只记录重叠关系，Step 结束后按实例当前目标统一派发，
// 所以重定向到一个已经重叠的目标时也能立即进入射程。
type RangeSensorSystem struct {
	entityManager *ecs.EntityManager
	behavior      *EnemyBehaviorSystem
	space         *cp.Space

	bodies     map[*components.EnemyComponent]*sensorBody
	shapeOwner map[*cp.Shape]*components.EnemyComponent
	objectives map[*cp.Shape]game.Objective

	// 当前重叠关系（由碰撞回调维护）
	reachTouch map[*components.EnemyComponent]map[game.Objective]bool
	hullTouch  map[*components.EnemyComponent]map[game.Objective]bool
}

// NewRangeSensorSystem 创建传感器系统
func NewRangeSensorSystem(em *ecs.EntityManager, behavior *EnemyBehaviorSystem) *RangeSensorSystem {
	s := &RangeSensorSystem{
		entityManager: em,
		behavior:      behavior,
		space:         cp.NewSpace(),
		bodies:        make(map[*components.EnemyComponent]*sensorBody),
		shapeOwner:    make(map[*cp.Shape]*components.EnemyComponent),
		objectives:    make(map[*cp.Shape]game.Objective),
		reachTouch:    make(map[*components.EnemyComponent]map[game.Objective]bool),
		hullTouch:     make(map[*components.EnemyComponent]map[game.Objective]bool),
	}
	s.setupCollisionHandlers()
	return s
}

func (s *RangeSensorSystem) setupCollisionHandlers() {
	reachHandler := s.space.NewCollisionHandler(collisionTypeReach, collisionTypeObjective)
	reachHandler.UserData = s.reachTouch
	reachHandler.BeginFunc = s.beginTouch
	reachHandler.SeparateFunc = s.separateTouch

	hullHandler := s.space.NewCollisionHandler(collisionTypeHull, collisionTypeObjective)
	hullHandler.UserData = s.hullTouch
	hullHandler.BeginFunc = s.beginTouch
	hullHandler.SeparateFunc = s.separateTouch
}

func (s *RangeSensorSystem) beginTouch(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	touch := userData.(map[*components.EnemyComponent]map[game.Objective]bool)
	if enemy, obj, ok := s.resolvePair(arb); ok {
		set := touch[enemy]
		if set == nil {
			set = make(map[game.Objective]bool)
			touch[enemy] = set
		}
		set[obj] = true
	}
	return true
}

func (s *RangeSensorSystem) separateTouch(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
	touch := userData.(map[*components.EnemyComponent]map[game.Objective]bool)
	if enemy, obj, ok := s.resolvePair(arb); ok {
		delete(touch[enemy], obj)
	}
}

// resolvePair 从碰撞对中取出实例和核心（不依赖形状顺序）
func (s *RangeSensorSystem) resolvePair(arb *cp.Arbiter) (*components.EnemyComponent, game.Objective, bool) {
	a, b := arb.Shapes()
	if enemy, ok := s.shapeOwner[a]; ok {
		obj, ok := s.objectives[b]
		return enemy, obj, ok
	}
	if enemy, ok := s.shapeOwner[b]; ok {
		obj, ok := s.objectives[a]
		return enemy, obj, ok
	}
	return nil, nil, false
}

// RegisterObjective 将核心加入物理空间（静态圆）
func (s *RangeSensorSystem) RegisterObjective(obj game.Objective) {
	if obj == nil {
		return
	}
	for _, existing := range s.objectives {
		if existing == obj {
			return
		}
	}
	shape := cp.NewCircle(s.space.StaticBody, obj.Radius(), obj.Position())
	shape.SetCollisionType(collisionTypeObjective)
	s.space.AddShape(shape)
	s.objectives[shape] = obj
	log.Printf("[RangeSensorSystem] Registered objective %s at (%.1f, %.1f) r=%.1f",
		obj.Name(), obj.Position().X, obj.Position().Y, obj.Radius())
}

// Update 同步实例形状、推进物理空间并派发射程/接触信号
func (s *RangeSensorSystem) Update(deltaTime float64) {
	active := s.sync()
	if deltaTime <= 0 {
		return
	}

	s.space.Step(deltaTime)

	for _, enemy := range active {
		if !enemy.Active {
			continue
		}
		target := enemy.Target
		if target == nil {
			continue
		}

		inReach := s.reachTouch[enemy][target]
		if inReach && !enemy.InRange {
			s.behavior.EnterRange(enemy)
		} else if !inReach && enemy.InRange {
			s.behavior.ExitRange(enemy)
		}

		if s.hullTouch[enemy][target] {
			s.behavior.Contact(enemy, target)
		}
	}
}

// sync 为新出池的实例创建形状，移除已回池实例的形状，并把位置写入刚体
// 返回按实体 ID 排序的活跃实例
func (s *RangeSensorSystem) sync() []*components.EnemyComponent {
	ids := ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager)
	active := make([]*components.EnemyComponent, 0, len(ids))
	seen := make(map[*components.EnemyComponent]bool, len(ids))

	for _, id := range ids {
		enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		if !ok || !enemy.Active {
			continue
		}
		seen[enemy] = true
		active = append(active, enemy)

		sb, exists := s.bodies[enemy]
		if exists && sb.seq != enemy.SpawnSeq {
			s.removeBody(enemy, sb)
			exists = false
		}
		if !exists {
			sb = s.addBody(enemy)
		}
		sb.body.SetPosition(enemy.Position)
	}

	for enemy, sb := range s.bodies {
		if !seen[enemy] {
			s.removeBody(enemy, sb)
		}
	}
	return active
}

func (s *RangeSensorSystem) addBody(enemy *components.EnemyComponent) *sensorBody {
	arch := enemy.Archetype
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(enemy.Position)
	s.space.AddBody(body)

	sb := &sensorBody{body: body, seq: enemy.SpawnSeq}

	if arch.AttackStyle.AttacksInRange() && arch.AttackRange > 0 {
		sb.reach = cp.NewCircle(body, arch.AttackRange, cp.Vector{})
		sb.reach.SetSensor(true)
		sb.reach.SetCollisionType(collisionTypeReach)
		s.space.AddShape(sb.reach)
		s.shapeOwner[sb.reach] = enemy
	}

	if arch.ContactRadius > 0 {
		sb.hull = cp.NewCircle(body, arch.ContactRadius, cp.Vector{})
		sb.hull.SetSensor(true)
		sb.hull.SetCollisionType(collisionTypeHull)
		s.space.AddShape(sb.hull)
		s.shapeOwner[sb.hull] = enemy
	}

	s.bodies[enemy] = sb
	return sb
}

func (s *RangeSensorSystem) removeBody(enemy *components.EnemyComponent, sb *sensorBody) {
	for _, shape := range []*cp.Shape{sb.reach, sb.hull} {
		if shape == nil {
			continue
		}
		s.space.RemoveShape(shape)
		delete(s.shapeOwner, shape)
	}
	s.space.RemoveBody(sb.body)

	delete(s.bodies, enemy)
	delete(s.reachTouch, enemy)
	delete(s.hullTouch, enemy)
}

// TrackedCount 返回当前在物理空间中的实例数
func (s *RangeSensorSystem) TrackedCount() int {
	return len(s.bodies)
}

// Close 移除所有实例形状
func (s *RangeSensorSystem) Close() {
	for enemy, sb := range s.bodies {
		s.removeBody(enemy, sb)
	}
}
