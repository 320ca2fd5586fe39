// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the built-in table for training configurations. Entries
// are listed section by section in the order they are resolved; derived
// defaults and conditions may refer to entries of any section.
package schema

import (
	"sync"

	"github.com/zclconf/go-cty/cty"
)

var builtin = sync.OnceValue(func() *Registry {
	return New(trainingEntries()...)
})

// Default returns the built-in registry. It is built on first use and
// shared afterwards.
func Default() *Registry {
	return builtin()
}

func trainingEntries() []Entry {
	hydra := Equals("model.name", "hydra")

	entries := []Entry{
		field("trainer", String, "Trainer implementation that consumes this configuration.").
			def(cty.StringVal("ocp")),

		section("dataset", "Dataset splits.").open(),
	}
	entries = append(entries, splitEntries("dataset.train", "Training split.", false)...)
	entries = append(entries, splitEntries("dataset.val", "Validation split.", true)...)
	entries = append(entries, splitEntries("dataset.test", "Test split.", true)...)

	entries = append(entries,
		section("logger", "Experiment logger.").open().shorthand("name"),
		field("logger.name", String, "Logger backend.").
			def(cty.StringVal("tensorboard")).oneOf("tensorboard", "wandb"),
		field("logger.project", String, "Project name for the logger backend.").nullable(),
		field("logger.entity", String, "Team or user the run is logged under.").nullable(),
		field("logger.group", String, "Run group.").nullable(),

		section("task", "Prediction task."),
		field("task.dataset", String, "Dataset reader.").def(cty.StringVal("lmdb")),
		field("task.type", String, "Task type.").def(cty.StringVal("regression")),
		field("task.metric", String, "Metric reported during training.").def(cty.StringVal("mae")),
		field("task.primary_metric", String, "Metric used to select the best checkpoint.").nullable(),
		field("task.labels", StringList, "Names of the predicted properties.").
			def(cty.ListValEmpty(cty.String)),
		field("task.description", String, "Free-form description.").nullable(),
		field("task.grad_input", String, "Label of the gradient target.").nullable(),
		field("task.train_on_free_atoms", Bool, "Compute force loss on free atoms only.").def(cty.False),
		field("task.eval_on_free_atoms", Bool, "Compute force metrics on free atoms only.").def(cty.True),
		field("task.prediction_dtype", String, "Floating point precision of saved predictions.").
			def(cty.StringVal("float16")).oneOf("float16", "float32", "float64"),

		section("model", "Model architecture. Unrecognized keys are passed to the model.").open(),
		field("model.name", String, "Registered model name.").required(),
		section("model.backbone", "Shared backbone of a hydra model.").open().optional().requiredIf(hydra),
		field("model.backbone.model", String, "Registered backbone name.").requiredIf(hydra),
		field("model.backbone.cutoff", Float, "Neighbor cutoff radius in angstrom.").requiredIf(hydra),
		field("model.backbone.max_neighbors", Int, "Maximum neighbors per atom.").nullable(),
		field("model.backbone.otf_graph", Bool, "Build graphs on the fly.").nullable(),
		field("model.backbone.regress_forces", Bool, "Predict forces.").nullable(),
		field("model.backbone.use_pbc", Bool, "Use periodic boundary conditions.").nullable(),
		field("model.heads", Mapping, "Output heads of a hydra model, keyed by name.").requiredIf(hydra),
		field("model.otf_graph", Bool, "Build graphs on the fly.").nullable(),
		field("model.regress_forces", Bool, "Predict forces.").nullable(),
		field("model.use_pbc", Bool, "Use periodic boundary conditions.").nullable(),
		field("model.use_pbc_single", Bool, "Process periodic systems one at a time.").nullable(),
		field("model.cutoff", Float, "Neighbor cutoff radius in angstrom.").nullable(),
		field("model.max_neighbors", Int, "Maximum neighbors per atom.").nullable(),

		section("optim", "Optimizer and schedule."),
		field("optim.batch_size", Int, "Training batch size per device.").required(),
		field("optim.eval_batch_size", Int, "Evaluation batch size per device.").
			defaultFrom("optim.batch_size"),
		field("optim.num_workers", Int, "Data loader workers.").def(cty.Zero),
		field("optim.lr_initial", Float, "Initial learning rate.").required(),
		field("optim.optimizer", String, "Optimizer class.").def(cty.StringVal("AdamW")),
		field("optim.optimizer_params", Mapping, "Keyword arguments for the optimizer.").
			def(cty.EmptyObjectVal),
		field("optim.weight_decay", Float, "Weight decay.").def(cty.Zero),
		field("optim.scheduler", String, "Learning rate scheduler class.").nullable().
			def(cty.NullVal(cty.String)),
		field("optim.scheduler_params", Mapping, "Keyword arguments for the scheduler.").nullable(),
		field("optim.mode", String, "Scheduler mode.").nullable(),
		field("optim.factor", Float, "Scheduler decay factor.").nullable(),
		field("optim.patience", Int, "Scheduler patience in evaluations.").nullable(),
		field("optim.lr_milestones", FloatList, "Steps at which the learning rate decays.").nullable(),
		field("optim.lr_gamma", Float, "Learning rate decay factor at each milestone.").
			requiredIf(Present("optim.lr_milestones")),
		field("optim.warmup_steps", Int, "Linear warmup length in steps.").nullable(),
		field("optim.warmup_factor", Float, "Initial warmup multiplier.").
			requiredIf(Present("optim.warmup_steps")),
		field("optim.max_epochs", Int, "Training length in epochs.").
			requiredIf(Absent("optim.max_steps")),
		field("optim.max_steps", Int, "Training length in steps.").nullable(),
		field("optim.eval_every", Int, "Steps between evaluations.").nullable(),
		field("optim.checkpoint_every", Int, "Steps between checkpoints.").nullable(),
		field("optim.clip_grad_norm", Float, "Gradient norm clipping threshold.").nullable(),
		field("optim.ema_decay", Float, "Exponential moving average decay of the weights.").nullable(),
		field("optim.energy_coefficient", Float, "Energy loss weight.").def(cty.NumberIntVal(1)),
		field("optim.force_coefficient", Float, "Force loss weight.").def(cty.NumberIntVal(30)),
		field("optim.loss_energy", String, "Energy loss function.").def(cty.StringVal("mae")),
		field("optim.loss_force", String, "Force loss function.").def(cty.StringVal("mae")),
		field("optim.load_balancing", String, "Distribute batches by atom or neighbor count.").
			nullable().oneOf("atoms", "neighbors"),

		field("outputs", Mapping, "Output definitions for hydra heads.").nullable(),
		field("loss_functions", Any, "Loss definitions for hydra heads.").nullable(),
		field("evaluation_metrics", Mapping, "Metric definitions for hydra heads.").nullable(),
	)
	return entries
}

func splitEntries(path, desc string, optional bool) []Entry {
	s := section(path, desc).open()
	if optional {
		s = s.optional()
	}
	return []Entry{
		s,
		field(path+".src", String, "Path to the split's data.").required(),
		field(path+".format", String, "Storage format of the split.").def(cty.StringVal("lmdb")),
		field(path+".key_mapping", StringMap, "Renames of dataset keys.").
			def(cty.MapValEmpty(cty.String)),
		field(path+".transforms", Mapping, "Transforms applied to each sample.").nullable(),
		field(path+".normalize_labels", Bool, "Normalize targets.").def(cty.False),
		field(path+".target_mean", Float, "Target mean used for normalization.").nullable(),
		field(path+".target_std", Float, "Target standard deviation used for normalization.").nullable(),
		field(path+".grad_target_mean", Float, "Gradient target mean.").nullable(),
		field(path+".grad_target_std", Float, "Gradient target standard deviation.").nullable(),
		field(path+".lin_ref", String, "Path to linear reference energies.").nullable(),
	}
}
