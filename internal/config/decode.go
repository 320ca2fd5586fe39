// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"fmt"

	"github.com/vk/trainconf/internal/document"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decoder extracts typed Go values from resolved cty values by path. The
// first failure for each path is recorded and decoding carries on.
type decoder struct {
	fields map[string]cty.Value
	extras map[string]map[string]any
	errs   []error
}

func (d *decoder) value(path string) (cty.Value, bool) {
	v, ok := d.fields[path]
	if !ok || v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}

func decodeInto[T any](d *decoder, path string) (T, bool) {
	var out T
	v, ok := d.value(path)
	if !ok {
		return out, false
	}
	if err := gocty.FromCtyValue(v, &out); err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: %w", path, err))
		return out, false
	}
	return out, true
}

func get[T any](d *decoder, path string) T {
	v, _ := decodeInto[T](d, path)
	return v
}

func opt[T any](d *decoder, path string) Optional[T] {
	v, ok := decodeInto[T](d, path)
	if !ok {
		return Optional[T]{}
	}
	return Some(v)
}

func (d *decoder) native(path string) any {
	v, ok := d.value(path)
	if !ok {
		return nil
	}
	return document.ToNative(v)
}

func (d *decoder) mapping(path string) map[string]any {
	m, _ := d.native(path).(map[string]any)
	return m
}

func (d *decoder) extrasOf(path string) map[string]any {
	return cloneMap(d.extras[path])
}

func (d *decoder) split(path string) Split {
	return Split{
		Src:             get[string](d, path+".src"),
		Format:          get[string](d, path+".format"),
		KeyMapping:      get[map[string]string](d, path+".key_mapping"),
		Transforms:      d.mapping(path + ".transforms"),
		NormalizeLabels: get[bool](d, path+".normalize_labels"),
		TargetMean:      opt[float64](d, path+".target_mean"),
		TargetStd:       opt[float64](d, path+".target_std"),
		GradTargetMean:  opt[float64](d, path+".grad_target_mean"),
		GradTargetStd:   opt[float64](d, path+".grad_target_std"),
		LinRef:          opt[string](d, path+".lin_ref"),
		Extras:          d.extrasOf(path),
	}
}

func (d *decoder) dataset(sections map[string]bool) Dataset {
	ds := Dataset{
		Train:  d.split("dataset.train"),
		Extras: d.extrasOf("dataset"),
	}
	if sections["dataset.val"] {
		ds.Val = Some(d.split("dataset.val"))
	}
	if sections["dataset.test"] {
		ds.Test = Some(d.split("dataset.test"))
	}
	return ds
}

func (d *decoder) logger() Logger {
	return Logger{
		Name:    get[string](d, "logger.name"),
		Project: opt[string](d, "logger.project"),
		Entity:  opt[string](d, "logger.entity"),
		Group:   opt[string](d, "logger.group"),
		Extras:  d.extrasOf("logger"),
	}
}

func (d *decoder) task() Task {
	return Task{
		Dataset:          get[string](d, "task.dataset"),
		Type:             get[string](d, "task.type"),
		Metric:           get[string](d, "task.metric"),
		PrimaryMetric:    opt[string](d, "task.primary_metric"),
		Labels:           get[[]string](d, "task.labels"),
		Description:      opt[string](d, "task.description"),
		GradInput:        opt[string](d, "task.grad_input"),
		TrainOnFreeAtoms: get[bool](d, "task.train_on_free_atoms"),
		EvalOnFreeAtoms:  get[bool](d, "task.eval_on_free_atoms"),
		PredictionDtype:  get[string](d, "task.prediction_dtype"),
	}
}

func (d *decoder) model(sections map[string]bool) Model {
	m := Model{
		Name:          get[string](d, "model.name"),
		Heads:         d.mapping("model.heads"),
		OTFGraph:      opt[bool](d, "model.otf_graph"),
		RegressForces: opt[bool](d, "model.regress_forces"),
		UsePBC:        opt[bool](d, "model.use_pbc"),
		UsePBCSingle:  opt[bool](d, "model.use_pbc_single"),
		Cutoff:        opt[float64](d, "model.cutoff"),
		MaxNeighbors:  opt[int](d, "model.max_neighbors"),
		Params:        d.extrasOf("model"),
	}
	if sections["model.backbone"] {
		m.Backbone = Some(Backbone{
			Model:         opt[string](d, "model.backbone.model"),
			Cutoff:        opt[float64](d, "model.backbone.cutoff"),
			MaxNeighbors:  opt[int](d, "model.backbone.max_neighbors"),
			OTFGraph:      opt[bool](d, "model.backbone.otf_graph"),
			RegressForces: opt[bool](d, "model.backbone.regress_forces"),
			UsePBC:        opt[bool](d, "model.backbone.use_pbc"),
			Params:        d.extrasOf("model.backbone"),
		})
	}
	return m
}

func (d *decoder) optim() Optim {
	return Optim{
		BatchSize:         get[int](d, "optim.batch_size"),
		EvalBatchSize:     get[int](d, "optim.eval_batch_size"),
		NumWorkers:        get[int](d, "optim.num_workers"),
		LRInitial:         get[float64](d, "optim.lr_initial"),
		Optimizer:         get[string](d, "optim.optimizer"),
		OptimizerParams:   d.mapping("optim.optimizer_params"),
		WeightDecay:       get[float64](d, "optim.weight_decay"),
		Scheduler:         opt[string](d, "optim.scheduler"),
		SchedulerParams:   d.mapping("optim.scheduler_params"),
		Mode:              opt[string](d, "optim.mode"),
		Factor:            opt[float64](d, "optim.factor"),
		Patience:          opt[int](d, "optim.patience"),
		LRMilestones:      get[[]float64](d, "optim.lr_milestones"),
		LRGamma:           opt[float64](d, "optim.lr_gamma"),
		WarmupSteps:       opt[int](d, "optim.warmup_steps"),
		WarmupFactor:      opt[float64](d, "optim.warmup_factor"),
		MaxEpochs:         opt[int](d, "optim.max_epochs"),
		MaxSteps:          opt[int](d, "optim.max_steps"),
		EvalEvery:         opt[int](d, "optim.eval_every"),
		CheckpointEvery:   opt[int](d, "optim.checkpoint_every"),
		ClipGradNorm:      opt[float64](d, "optim.clip_grad_norm"),
		EMADecay:          opt[float64](d, "optim.ema_decay"),
		EnergyCoefficient: get[float64](d, "optim.energy_coefficient"),
		ForceCoefficient:  get[float64](d, "optim.force_coefficient"),
		LossEnergy:        get[string](d, "optim.loss_energy"),
		LossForce:         get[string](d, "optim.loss_force"),
		LoadBalancing:     opt[string](d, "optim.load_balancing"),
	}
}
